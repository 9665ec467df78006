package rest

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dfryer1193/agenda/api"
	"github.com/dfryer1193/agenda/contacts/application"
	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	contacts *application.ContactService
}

type idInput struct {
	ID int64 `path:"id" example:"1" doc:"ID of the contact"`
}

type contactOutput struct {
	Body api.Contact
}

func (h *contactHandler) list(ctx context.Context, _ *struct{}) (*struct{ Body []api.ContactSummary }, error) {
	summaries, err := h.contacts.ListContacts(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &struct{ Body []api.ContactSummary }{Body: api.SummariesFromDomain(summaries)}, nil
}

func (h *contactHandler) first(ctx context.Context, _ *struct{}) (*contactOutput, error) {
	c, err := h.contacts.FirstContact(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &contactOutput{Body: api.FromDomain(c)}, nil
}

func (h *contactHandler) get(ctx context.Context, input *idInput) (*contactOutput, error) {
	c, err := h.contacts.GetContact(ctx, input.ID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &contactOutput{Body: api.FromDomain(c)}, nil
}

func (h *contactHandler) create(ctx context.Context, input *struct {
	Body api.ContactProto
}) (*struct{ Body api.CreatedContact }, error) {
	id, err := h.contacts.CreateContact(ctx, input.Body.Fields(), input.Body.ImagePath)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &struct{ Body api.CreatedContact }{Body: api.CreatedContact{ID: id}}, nil
}

func (h *contactHandler) update(ctx context.Context, input *struct {
	ID   int64 `path:"id" example:"1" doc:"ID of the contact"`
	Body api.ContactProto
}) (*struct{}, error) {
	if err := h.contacts.UpdateContactWithImage(ctx, input.ID, input.Body.Fields(), input.Body.ImagePath); err != nil {
		return nil, toHTTPError(err)
	}

	return nil, nil
}

type deleteOutput struct {
	ReclaimWarning string `header:"X-Reclaim-Warning" doc:"Set when the contact's image could not be removed"`
}

func (h *contactHandler) delete(ctx context.Context, input *idInput) (*deleteOutput, error) {
	res, err := h.contacts.DeleteContact(ctx, input.ID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	out := &deleteOutput{}
	if res.ReclaimErr != nil {
		out.ReclaimWarning = res.ReclaimErr.Error()
	}
	return out, nil
}

type fileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *contactHandler) image(ctx context.Context, input *idInput) (*fileOutput, error) {
	rc, contentType, err := h.contacts.OpenImage(ctx, input.ID)
	if errors.Is(err, domain.ErrIO) {
		return nil, huma.Error404NotFound("contact image unavailable", err)
	}
	if err != nil {
		return nil, toHTTPError(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &fileOutput{ContentType: contentType, Body: data}, nil
}

func (h *contactHandler) export(ctx context.Context, _ *struct{}) (*fileOutput, error) {
	var buf bytes.Buffer
	if _, err := h.contacts.ExportVCards(ctx, &buf); err != nil {
		return nil, toHTTPError(err)
	}

	return &fileOutput{
		ContentType:        "text/vcard; charset=utf-8",
		ContentDisposition: `attachment; filename="contacts.vcf"`,
		Body:               buf.Bytes(),
	}, nil
}

// toHTTPError maps the domain error taxonomy onto HTTP statuses.
func toHTTPError(err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		details := make([]error, 0, len(validationErr.Fields))
		for _, field := range validationErr.Fields {
			details = append(details, &huma.ErrorDetail{
				Location: "body." + field,
				Message:  "is required",
			})
		}
		return huma.Error422UnprocessableEntity(validationErr.Error(), details...)
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, domain.ErrIO):
		return huma.Error400BadRequest("image could not be imported", err)
	}

	log.Error().Err(err).Msg("Unhandled error in contact API")
	return huma.Error500InternalServerError("internal error")
}
