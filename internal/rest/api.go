package rest

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/dfryer1193/agenda/contacts/application"
	"github.com/dfryer1193/agenda/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	title   = "Agenda"
	version = "1.0.0"
)

// NewRouter builds the gin engine serving the contact API, liveness and metrics.
// Request metrics are recorded in requestMetrics and exposed together with the
// process-wide default set.
func NewRouter(contacts *application.ContactService, requestMetrics *metrics.Set) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.CustomRecovery(middleware.HandlePanics()),
		middleware.RequestLogger(),
		middleware.MeterRequests(requestMetrics),
	)

	router.GET("/liveness", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", func(c *gin.Context) {
		requestMetrics.WritePrometheus(c.Writer)
		metrics.WritePrometheus(c.Writer, true)
	})

	NewApi(humagin.New(router, huma.DefaultConfig(title, version)), contacts)
	return router
}

// NewApi registers every contact operation on api.
func NewApi(api huma.API, contacts *application.ContactService) {
	h := &contactHandler{contacts: contacts}

	huma.Register(api, huma.Operation{
		OperationID: "list-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts/v1",
		Summary:     "List contact summaries in insertion order",
		Tags:        []string{"contacts"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "first-contact",
		Method:      http.MethodGet,
		Path:        "/contacts/v1/first",
		Summary:     "Get the contact with the lowest id",
		Tags:        []string{"contacts"},
	}, h.first)

	huma.Register(api, huma.Operation{
		OperationID: "export-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts/v1/export.vcf",
		Summary:     "Export every contact as vCard",
		Tags:        []string{"contacts"},
	}, h.export)

	huma.Register(api, huma.Operation{
		OperationID: "get-contact",
		Method:      http.MethodGet,
		Path:        "/contacts/v1/{id}",
		Summary:     "Get a contact",
		Tags:        []string{"contacts"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-contact",
		Method:        http.MethodPost,
		Path:          "/contacts/v1",
		Summary:       "Create a contact",
		Tags:          []string{"contacts"},
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID:   "update-contact",
		Method:        http.MethodPut,
		Path:          "/contacts/v1/{id}",
		Summary:       "Replace a contact and optionally its image",
		Tags:          []string{"contacts"},
		DefaultStatus: http.StatusNoContent,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-contact",
		Method:        http.MethodDelete,
		Path:          "/contacts/v1/{id}",
		Summary:       "Delete a contact and reclaim its image",
		Tags:          []string{"contacts"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)

	huma.Register(api, huma.Operation{
		OperationID: "get-contact-image",
		Method:      http.MethodGet,
		Path:        "/contacts/v1/{id}/image",
		Summary:     "Get a contact's image",
		Tags:        []string{"contacts"},
	}, h.image)
}
