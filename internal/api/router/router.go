// Package router assembles the chi route tree for the concierge API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anjila-26/spa-concierge/internal/chat"
	httpmiddleware "github.com/anjila-26/spa-concierge/internal/http/middleware"
	"github.com/anjila-26/spa-concierge/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	AdminAuthSecret    string

	// Chat rate limiting. Zero disables the limiter.
	ChatRatePerSecond float64
	ChatRateBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.ChatHandler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(limited chi.Router) {
			if cfg.ChatRatePerSecond > 0 && cfg.ChatRateBurst > 0 {
				limited.Use(httpmiddleware.RateLimit(cfg.ChatRatePerSecond, cfg.ChatRateBurst))
			}
			limited.Post("/chat", cfg.ChatHandler.Chat)
			limited.Get("/chat/ws", cfg.ChatHandler.ChatWS)
		})

		api.Get("/chat/history", cfg.ChatHandler.History)
		api.Get("/services", cfg.ChatHandler.Services)
		api.Get("/appointments/{userID}", cfg.ChatHandler.Appointments)
	})

	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/appointments", cfg.ChatHandler.AdminAppointments)
		})
	}

	return r
}
