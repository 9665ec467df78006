package application

import (
	"context"
	"errors"
	"sync"

	"github.com/dfryer1193/agenda/contacts/domain"
)

var ErrSessionClosed = errors.New("edit session closed")

// View is what the main window shows after an edit form closes.
// Contact is nil when the store is empty.
type View struct {
	Contact   *domain.Contact
	Summaries []domain.Summary
}

// EditSession carries the identity of the contact under edit from the moment an
// update form opens until it closes. Two sessions on the same contact are allowed;
// the last submit wins.
type EditSession struct {
	svc      *ContactService
	id       int64
	snapshot domain.Contact

	mu     sync.Mutex
	closed bool
}

// BeginEdit loads the contact at id and opens a session for it.
func (s *ContactService) BeginEdit(ctx context.Context, id int64) (*EditSession, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &EditSession{
		svc:      s,
		id:       id,
		snapshot: *c,
	}, nil
}

func (e *EditSession) ContactID() int64 {
	return e.id
}

// Contact returns the record as it was when the session began or last submitted,
// for populating the form.
func (e *EditSession) Contact() domain.Contact {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Submit writes f to the session's contact. See UpdateContactWithImage for imageSource.
func (e *EditSession) Submit(ctx context.Context, f domain.Fields, imageSource string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrSessionClosed
	}

	if err := e.svc.UpdateContactWithImage(ctx, e.id, f, imageSource); err != nil {
		return err
	}

	c, err := e.svc.GetContact(ctx, e.id)
	if err != nil {
		return err
	}
	e.snapshot = *c
	return nil
}

// Close ends the session and returns a fresh view: the edited contact, or the first
// contact when it no longer exists, plus the re-read list.
func (e *EditSession) Close(ctx context.Context) (View, error) {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	summaries, err := e.svc.ListContacts(ctx)
	if err != nil {
		return View{}, err
	}

	c, err := e.svc.GetContact(ctx, e.id)
	if errors.Is(err, domain.ErrNotFound) {
		c, err = e.svc.FirstContact(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return View{Summaries: summaries}, nil
		}
	}
	if err != nil {
		return View{}, err
	}

	return View{Contact: c, Summaries: summaries}, nil
}
