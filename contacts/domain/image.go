package domain

import (
	"context"
	"io"
)

// ImageStore owns the lifecycle of managed thumbnail files.
type ImageStore interface {
	// ImportImage resizes the JPEG or PNG at sourcePath into a new managed thumbnail
	// and returns its path.
	ImportImage(ctx context.Context, sourcePath string) (string, error)

	// Reclaim deletes a managed file. The default avatar and missing files are left alone.
	Reclaim(ctx context.Context, managedPath string) error

	// IsDefault reports whether ref is the shared default avatar.
	IsDefault(ref string) bool

	// DefaultRef returns the default avatar reference.
	DefaultRef() string

	// Open returns the file behind ref together with its content type.
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)

	// ListManaged returns the paths of every file in the managed directory.
	ListManaged(ctx context.Context) ([]string, error)
}
