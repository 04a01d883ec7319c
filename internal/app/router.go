package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vantage-admin/vantage-admin/internal/customers"
	"github.com/vantage-admin/vantage-admin/internal/importer"
	"github.com/vantage-admin/vantage-admin/internal/proposals"
	"github.com/vantage-admin/vantage-admin/internal/quotations"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CustomerHandler  *customers.Handler
	QuotationHandler *quotations.Handler
	ProposalHandler  *proposals.Handler
	ImportHandler    *importer.Handler
}

// NewRouter constructs the chi.Router with Vantage defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/customers", params.CustomerHandler.MountRoutes)
	r.Route("/quotations", params.QuotationHandler.MountRoutes)
	r.Route("/proposals", params.ProposalHandler.MountRoutes)
	r.Route("/imports", params.ImportHandler.MountRoutes)

	return r
}
