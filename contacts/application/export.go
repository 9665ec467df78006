package application

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/emersion/go-vcard"
)

// ExportVCards writes every contact to w as vCard 4.0, in list order,
// and returns how many cards were written.
func (s *ContactService) ExportVCards(ctx context.Context, w io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return 0, err
	}

	enc := vcard.NewEncoder(w)
	for i, summary := range summaries {
		c, err := s.repo.Get(ctx, summary.ID)
		if err != nil {
			return i, err
		}

		if err := enc.Encode(toCard(c)); err != nil {
			return i, fmt.Errorf("failed to encode contact %d: %w", c.ID, err)
		}
	}

	return len(summaries), nil
}

func toCard(c *domain.Contact) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldUID, fmt.Sprintf("urn:agenda:contact:%d", c.ID))
	card.SetValue(vcard.FieldFormattedName, strings.TrimSpace(c.Name+" "+c.Surname))
	card.AddName(&vcard.Name{
		GivenName:  c.Name,
		FamilyName: c.Surname,
	})
	card.SetValue(vcard.FieldTelephone, c.Phone)

	if c.Email != "" {
		card.SetValue(vcard.FieldEmail, c.Email)
	}
	if c.Address != "" {
		card.AddAddress(&vcard.Address{StreetAddress: c.Address})
	}

	vcard.ToV4(card)
	return card
}
