package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jimohammad/po-sub000/internal/ledger"
	"github.com/jimohammad/po-sub000/internal/observability"
	"github.com/jimohammad/po-sub000/internal/party"
	"github.com/jimohammad/po-sub000/internal/payments"
	"github.com/jimohammad/po-sub000/internal/purchasing"
	"github.com/jimohammad/po-sub000/internal/returns"
	"github.com/jimohammad/po-sub000/internal/sales"
	"github.com/jimohammad/po-sub000/internal/share"
	"github.com/jimohammad/po-sub000/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	LedgerHandler     *ledger.Handler
	PartyHandler      *party.Handler
	SalesHandler      *sales.Handler
	PurchasingHandler *purchasing.Handler
	PaymentsHandler   *payments.Handler
	ReturnsHandler    *returns.Handler
	ShareHandler      *share.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.PartyHandler.MountRoutes(r)
		params.LedgerHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.PurchasingHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.ReturnsHandler.MountRoutes(r)
		params.ShareHandler.MountAPIRoutes(r)
	})

	// Public token access lives outside the API prefix.
	params.ShareHandler.MountPublicRoutes(r)

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
