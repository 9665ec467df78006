package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/rs/zerolog/log"
)

var (
	imagesImported  = metrics.NewCounter("agenda_images_imported_total")
	reclaimFailures = metrics.NewCounter("agenda_image_reclaim_failures_total")
)

// ContactService composes the contact store and the image store. Every mutation runs
// under one lock so the import, persist and reclaim steps of concurrent callers never
// interleave.
type ContactService struct {
	repo   domain.ContactRepository
	images domain.ImageStore
	mu     sync.Mutex
}

func NewContactService(repo domain.ContactRepository, images domain.ImageStore) *ContactService {
	return &ContactService{
		repo:   repo,
		images: images,
	}
}

// DeleteResult describes a completed deletion. ReclaimErr is set when the contact's
// image could not be removed; the record itself is gone either way.
type DeleteResult struct {
	Contact    *domain.Contact
	ReclaimErr error
}

// SweepResult lists what ReclaimOrphans removed and what it could not.
type SweepResult struct {
	Reclaimed []string
	Failed    map[string]error
}

func (s *ContactService) ListContacts(ctx context.Context) ([]domain.Summary, error) {
	return s.repo.ListSummaries(ctx)
}

func (s *ContactService) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.repo.Get(ctx, id)
}

// FirstContact returns the contact shown when nothing is selected.
func (s *ContactService) FirstContact(ctx context.Context) (*domain.Contact, error) {
	return s.repo.First(ctx)
}

// CreateContact stores a new contact. When imageSource names a file it is imported
// first; an empty imageSource or the default avatar gives the contact the default avatar.
func (s *ContactService) CreateContact(ctx context.Context, f domain.Fields, imageSource string) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref, imported, err := s.resolveImage(ctx, s.images.DefaultRef(), imageSource)
	if err != nil {
		return 0, err
	}
	f.ImageRef = ref

	id, err := s.repo.Create(ctx, f)
	if err != nil {
		if imported {
			s.discard(ctx, ref)
		}
		return 0, err
	}

	log.Info().Int64("contact_id", id).Str("image", ref).Msg("Created contact")
	return id, nil
}

// UpdateContactWithImage replaces every field of the contact at id.
//
// imageSource selects the image: empty or equal to the stored reference keeps it,
// the default avatar resets to it, anything else is imported as a new thumbnail.
// The new image is imported before the record is written and the previous managed
// file is reclaimed only after the write has committed.
func (s *ContactService) UpdateContactWithImage(ctx context.Context, id int64, f domain.Fields, imageSource string) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	ref, imported, err := s.resolveImage(ctx, current.ImageRef, imageSource)
	if err != nil {
		return err
	}
	f.ImageRef = ref

	previous, err := s.repo.Update(ctx, id, f)
	if err != nil {
		if imported {
			s.discard(ctx, ref)
		}
		return err
	}

	if previous.ImageRef != ref {
		// The update is committed; a failed reclaim leaves an orphan for ReclaimOrphans.
		_ = s.reclaim(ctx, id, previous.ImageRef)
	}

	log.Info().Int64("contact_id", id).Str("image", ref).Msg("Updated contact")
	return nil
}

// DeleteContact removes the contact and then reclaims its image. A reclaim failure
// does not undo the deletion; it is reported in the result.
func (s *ContactService) DeleteContact(ctx context.Context, id int64) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	log.Info().Int64("contact_id", id).Msg("Deleted contact")

	return DeleteResult{
		Contact:    removed,
		ReclaimErr: s.reclaim(ctx, id, removed.ImageRef),
	}, nil
}

// ReclaimOrphans removes managed images that no contact references any more.
func (s *ContactService) ReclaimOrphans(ctx context.Context) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := s.repo.ImageRefs(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	managed, err := s.images.ListManaged(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	inUse := make(map[string]bool, len(refs))
	for _, ref := range refs {
		inUse[absPath(ref)] = true
	}

	result := SweepResult{
		Reclaimed: make([]string, 0),
		Failed:    make(map[string]error),
	}
	for _, path := range managed {
		if inUse[absPath(path)] || s.images.IsDefault(path) {
			continue
		}

		if err := s.images.Reclaim(ctx, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to reclaim orphaned image")
			reclaimFailures.Inc()
			result.Failed[path] = err
			continue
		}
		result.Reclaimed = append(result.Reclaimed, path)
	}

	log.Info().Int("reclaimed", len(result.Reclaimed)).Int("failed", len(result.Failed)).Msg("Swept orphaned images")
	return result, nil
}

// OpenImage opens the image of the contact at id.
func (s *ContactService) OpenImage(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	return s.images.Open(ctx, c.ImageRef)
}

func (s *ContactService) resolveImage(ctx context.Context, currentRef, source string) (string, bool, error) {
	switch {
	case source == "" || source == currentRef:
		return currentRef, false, nil
	case s.images.IsDefault(source):
		return s.images.DefaultRef(), false, nil
	}

	managed, err := s.images.ImportImage(ctx, source)
	if err != nil {
		return "", false, fmt.Errorf("failed to import contact image: %w", err)
	}

	imagesImported.Inc()
	return managed, true, nil
}

// reclaim removes ref on behalf of contact id, logging and counting failures.
func (s *ContactService) reclaim(ctx context.Context, id int64, ref string) error {
	if s.images.IsDefault(ref) {
		return nil
	}

	if err := s.images.Reclaim(ctx, ref); err != nil {
		log.Warn().Err(err).Int64("contact_id", id).Str("path", ref).Msg("Failed to reclaim contact image")
		reclaimFailures.Inc()
		return err
	}

	return nil
}

// discard drops a freshly imported image whose record was never written.
func (s *ContactService) discard(ctx context.Context, ref string) {
	if err := s.images.Reclaim(ctx, ref); err != nil {
		log.Warn().Err(err).Str("path", ref).Msg("Failed to discard unused image")
		reclaimFailures.Inc()
	}
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
