package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/ashwinpillai/eclauction/internal/auction"
	"github.com/ashwinpillai/eclauction/internal/repository"
	"github.com/ashwinpillai/eclauction/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Templates holds all parsed HTML templates
type Templates struct {
	Console *template.Template
	Live    *template.Template
}

// PageData holds the data passed to page templates
type PageData struct {
	Title   string
	LiveURL string
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Session      *auction.Session
	Sales        repository.SaleRepository
	Hub          *websocket.Hub
	Log          HTTPLogger
	LiveURL      string
	templates    *Templates
	staticServer http.Handler
}

// New creates a new Handlers instance with all dependencies
func New(
	session *auction.Session,
	sales repository.SaleRepository,
	hub *websocket.Hub,
	templatesFS fs.FS,
	staticServer http.Handler,
	liveURL string,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Session:      session,
		Sales:        sales,
		Hub:          hub,
		Log:          log,
		LiveURL:      liveURL,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without templates (for testing
// API endpoints).
func NewForTesting(session *auction.Session, sales repository.SaleRepository) *Handlers {
	return &Handlers{
		Session: session,
		Sales:   sales,
		Log:     NoopHTTPLogger{},
		// templates left nil - API endpoints don't use templates
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Console, err = template.ParseFS(templatesFS, "console.html"); err != nil {
		return nil, fmt.Errorf("console template: %w", err)
	}
	if t.Live, err = template.ParseFS(templatesFS, "live.html"); err != nil {
		return nil, fmt.Errorf("live template: %w", err)
	}

	return t, nil
}
