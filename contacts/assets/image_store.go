package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

var _ domain.ImageStore = (*ImageStore)(nil)

const (
	DefaultDir           = "./images"
	DefaultThumbnailSize = 128

	jpegQuality     = 90
	maxNameAttempts = 5
)

var ErrUnsupportedFormat = errors.New("only .jpg, .jpeg and .png images are supported")

type Config struct {
	Dir           string
	DefaultAvatar string
	ThumbnailSize int
}

// ImageStore keeps contact thumbnails in a single managed directory.
type ImageStore struct {
	dir           string
	defaultAvatar string
	size          int
	newName       func() string
}

// NewImageStore creates an ImageStore, filling unset config values with defaults.
func NewImageStore(cfg Config) *ImageStore {
	s := &ImageStore{
		dir:           cfg.Dir,
		defaultAvatar: cfg.DefaultAvatar,
		size:          cfg.ThumbnailSize,
		newName:       uuid.NewString,
	}

	if s.dir == "" {
		s.dir = DefaultDir
	}
	if s.defaultAvatar == "" {
		s.defaultAvatar = domain.DefaultAvatar
	}
	if s.size <= 0 {
		s.size = DefaultThumbnailSize
	}

	return s
}

// Dir returns the managed directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

func (s *ImageStore) DefaultRef() string {
	return s.defaultAvatar
}

func (s *ImageStore) IsDefault(ref string) bool {
	return filepath.Clean(ref) == filepath.Clean(s.defaultAvatar)
}

// ImportImage decodes the image at sourcePath, scales it to a size x size square
// without preserving aspect ratio, and writes it under a fresh name in the managed
// directory. The thumbnail keeps the source's format.
func (s *ImageStore) ImportImage(ctx context.Context, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &domain.IOError{Op: "import", Path: sourcePath, Err: err}
	}

	format, err := formatOf(sourcePath)
	if err != nil {
		return "", &domain.IOError{Op: "import", Path: sourcePath, Err: err}
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", &domain.IOError{Op: "open", Path: sourcePath, Err: err}
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", &domain.IOError{Op: "decode", Path: sourcePath, Err: err}
	}

	thumb := image.NewRGBA(image.Rect(0, 0, s.size, s.size))
	draw.BiLinear.Scale(thumb, thumb.Bounds(), img, img.Bounds(), draw.Src, nil)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", &domain.IOError{Op: "mkdir", Path: s.dir, Err: err}
	}

	base := filepath.Base(sourcePath)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		managedPath := filepath.Join(s.dir, s.newName()+"_"+base)

		f, err := os.OpenFile(managedPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", &domain.IOError{Op: "create", Path: managedPath, Err: err}
		}

		if err := encode(f, thumb, format); err != nil {
			f.Close()
			os.Remove(managedPath)
			return "", &domain.IOError{Op: "encode", Path: managedPath, Err: err}
		}

		if err := f.Close(); err != nil {
			os.Remove(managedPath)
			return "", &domain.IOError{Op: "write", Path: managedPath, Err: err}
		}

		log.Debug().Str("source", sourcePath).Str("path", managedPath).Msg("Imported contact image")
		return managedPath, nil
	}

	return "", &domain.IOError{
		Op:   "create",
		Path: s.dir,
		Err:  fmt.Errorf("no free file name after %d attempts", maxNameAttempts),
	}
}

// Reclaim removes a managed thumbnail. The default avatar, references that are not
// managed thumbnails and files that are already gone are left as they are.
func (s *ImageStore) Reclaim(ctx context.Context, managedPath string) error {
	if err := ctx.Err(); err != nil {
		return &domain.IOError{Op: "remove", Path: managedPath, Err: err}
	}

	if managedPath == "" || s.IsDefault(managedPath) {
		return nil
	}

	if !s.owns(managedPath) {
		log.Debug().Str("path", managedPath).Msg("Skipping reclaim of unmanaged image")
		return nil
	}

	if err := os.Remove(managedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.IOError{Op: "remove", Path: managedPath, Err: err}
	}

	return nil
}

// Open returns a reader for ref and the content type implied by its extension.
func (s *ImageStore) Open(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", &domain.IOError{Op: "open", Path: ref, Err: err}
	}

	format, err := formatOf(ref)
	if err != nil {
		return nil, "", &domain.IOError{Op: "open", Path: ref, Err: err}
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, "", &domain.IOError{Op: "open", Path: ref, Err: err}
	}

	return f, "image/" + format, nil
}

// ListManaged returns the thumbnails ImportImage created in the managed directory.
// Files that do not follow the import naming scheme are not managed and are left out.
// A directory that does not exist yet holds no files.
func (s *ImageStore) ListManaged(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.IOError{Op: "list", Path: s.dir, Err: err}
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &domain.IOError{Op: "list", Path: s.dir, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !isManagedName(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}

	return paths, nil
}

func (s *ImageStore) owns(path string) bool {
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return false
	}
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.Dir(rel) != "." {
		return false
	}
	return isManagedName(rel)
}

// isManagedName reports whether name has the <uuid>_<basename> form ImportImage
// writes, with a supported image extension.
func isManagedName(name string) bool {
	prefix, base, ok := strings.Cut(name, "_")
	if !ok || base == "" {
		return false
	}
	if _, err := uuid.Parse(prefix); err != nil {
		return false
	}
	_, err := formatOf(base)
	return err == nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".png":
		return "png", nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func encode(w io.Writer, img image.Image, format string) error {
	if format == "png" {
		return png.Encode(w, img)
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
}
