package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/praxia/citas-gateway/internal/http/handlers"
	httpmiddleware "github.com/praxia/citas-gateway/internal/http/middleware"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger     *logging.Logger
	Citas      *handlers.CitasHandler
	Catalog    *handlers.CatalogHandler
	PagoSocket *handlers.PagoSocket

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	SessionTTL         time.Duration
	UserJWTSecret      string

	// Per-session throttle for the catalog search endpoints.
	SearchRatePerSec float64
	SearchBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	searchRate := cfg.SearchRatePerSec
	if searchRate <= 0 {
		searchRate = 5
	}
	searchBurst := cfg.SearchBurst
	if searchBurst <= 0 {
		searchBurst = 10
	}

	r.Route("/citas", func(citas chi.Router) {
		citas.Use(httpmiddleware.Session(sessionTTL))
		if cfg.Logger != nil {
			citas.Use(httpmiddleware.RequestLogger(cfg.Logger))
		}
		citas.Use(httpmiddleware.UserToken(cfg.UserJWTSecret))

		citas.Get("/draft", cfg.Citas.GetDraft)
		citas.Patch("/draft", cfg.Citas.PatchDraft)
		citas.Delete("/draft", cfg.Citas.DeleteDraft)
		citas.Get("/navegacion", cfg.Citas.GetNavegacion)

		if cfg.Catalog != nil {
			citas.Group(func(search chi.Router) {
				search.Use(httpmiddleware.RateLimit(searchRate, searchBurst))
				search.Get("/especialidades", cfg.Catalog.Especialidades)
				search.Get("/centros", cfg.Catalog.Centros)
				search.Get("/medicos", cfg.Catalog.Medicos)
				search.Get("/mce/{id}/agendas", cfg.Catalog.Agendas)
				search.Get("/agendas/{id}/slots", cfg.Catalog.Slots)
				search.Get("/slots/{id}/resumen", cfg.Catalog.GetSlotResumen)
			})
		}

		citas.Post("/slots/{id}/reservar", cfg.Citas.Reservar)
		citas.Get("/pago", cfg.Citas.GetPago)
		citas.Post("/pagar", cfg.Citas.Pagar)
		citas.Delete("/pago", cfg.Citas.Cancelar)
		citas.Get("/confirmada", cfg.Citas.GetConfirmada)
		citas.Delete("/confirmada", cfg.Citas.DeleteConfirmada)
		citas.Get("/eventos", cfg.Citas.GetEventos)

		if cfg.PagoSocket != nil {
			citas.Get("/pago/ws", cfg.PagoSocket.HandleWebSocket)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
