package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Static files (served from embedded filesystem)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}

	// Pages
	if h.templates != nil {
		r.Get("/", h.handleConsolePage)
		r.Get("/live", h.handleLivePage)
	}
	r.Get("/live/qr", h.handleLiveQR)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Session API
	r.Get("/api/state", h.handleGetState)
	r.Get("/api/teams", h.handleGetTeams)
	r.Post("/api/intro/next", h.handleNextIntro)
	r.Post("/api/category/start", h.handleStartCategory)
	r.Post("/api/player/next", h.handleSelectNext)
	r.Post("/api/player/unsold", h.handleMarkUnsold)
	r.Post("/api/bid/raise", h.handleRaiseBid)
	r.Post("/api/bid/set", h.handleSetBid)
	r.Post("/api/sale/propose", h.handlePropose)
	r.Post("/api/sale/reopen", h.handleReopen)
	r.Post("/api/sale/confirm", h.handleConfirm)
	r.Post("/api/undo", h.handleUndo)
	r.Post("/api/finish", h.handleFinish)

	// Results
	r.Get("/api/results", h.handleGetResults)
	r.Get("/api/results/export", h.handleExportResults)
	r.Get("/api/sales", h.handleGetSales)

	return r
}
