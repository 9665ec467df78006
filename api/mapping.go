package api

import "github.com/dfryer1193/agenda/contacts/domain"

func FromDomain(c *domain.Contact) Contact {
	return Contact{
		ID:       c.ID,
		Name:     c.Name,
		Surname:  c.Surname,
		Phone:    c.Phone,
		Email:    c.Email,
		Address:  c.Address,
		ImageRef: c.ImageRef,
	}
}

func SummariesFromDomain(summaries []domain.Summary) []ContactSummary {
	out := make([]ContactSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ContactSummary{ID: s.ID, Name: s.Name, Surname: s.Surname})
	}
	return out
}

// Fields returns the contact fields of p. The image reference is left empty; the
// image is chosen by ImagePath.
func (p ContactProto) Fields() domain.Fields {
	return domain.Fields{
		Name:    p.Name,
		Surname: p.Surname,
		Phone:   p.Phone,
		Email:   p.Email,
		Address: p.Address,
	}
}
