package domain

import (
	"context"
)

// DefaultAvatar is the image reference used for contacts without a photo of their own.
const DefaultAvatar = "icons/person.png"

// Fields holds every mutable attribute of a contact.
// Name, Surname and Phone are required; the rest may be empty.
type Fields struct {
	Name     string `validate:"required"`
	Surname  string `validate:"required"`
	Phone    string `validate:"required"`
	Email    string
	Address  string
	ImageRef string
}

// Contact is a persisted contact record. ID is assigned by the store and never reused.
type Contact struct {
	ID int64
	Fields
}

// Summary is the subset of a contact shown in the selectable list.
type Summary struct {
	ID      int64
	Name    string
	Surname string
}

// ContactRepository is the single source of truth for contact records.
type ContactRepository interface {
	// Create validates and persists a new contact, returning its assigned ID.
	Create(ctx context.Context, f Fields) (int64, error)

	// Get returns the contact with the given ID.
	Get(ctx context.Context, id int64) (*Contact, error)

	// First returns the contact with the lowest ID.
	First(ctx context.Context) (*Contact, error)

	// ListSummaries returns a snapshot of every contact in insertion order.
	ListSummaries(ctx context.Context) ([]Summary, error)

	// Update replaces every field of the contact and returns the record as it was before.
	Update(ctx context.Context, id int64, f Fields) (*Contact, error)

	// Delete removes the contact and returns the removed record.
	Delete(ctx context.Context, id int64) (*Contact, error)

	// ImageRefs returns the image reference of every stored contact.
	ImageRefs(ctx context.Context) ([]string, error)
}
