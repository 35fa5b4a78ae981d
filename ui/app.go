// Package ui serves the interactive z-test simulator as server-rendered
// HTML over chi, with the JSON API mounted under /api.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"zhypo/app"
	"zhypo/internal"
	"zhypo/internal/validation"
)

//go:embed templates/*.html static/* content/*.md
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	router    *chi.Mux
	service   *app.SimulationService
	templates *template.Template
	pages     map[string]template.HTML
	config    Config
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	DefaultAlpha float64
	// FormLimits are applied to form input on top of the service limits.
	FormLimits validation.Limits
	// ChartWidth is the SVG width in pixels; it also selects the tick density.
	ChartWidth int
}

// DefaultFormLimits mirrors the bounds of the simulator form
func DefaultFormLimits() validation.Limits {
	return validation.Limits{MinSampleSize: 5}
}

// NewApp creates a new UI application. api, when non-nil, is mounted at /api.
func NewApp(config Config, service *app.SimulationService, api http.Handler, logger *internal.Logger) (*App, error) {
	funcMap := template.FuncMap{
		"fixed": func(digits int, v float64) string { return formatFixed(v, digits) },
		"sig":   func(digits int, v float64) string { return formatSig(v, digits) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	pages, err := loadPages(embeddedFiles, "content")
	if err != nil {
		return nil, fmt.Errorf("failed to render pages: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		pages:     pages,
		config:    config,
		logger:    logger,
	}

	a.setupMiddleware()
	a.setupRoutes(api)

	return a, nil
}

// ServeHTTP implements http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes(api http.Handler) {
	static, _ := fs.Sub(embeddedFiles, "static")
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	a.router.Get("/", a.handleIndex)
	a.router.Get("/simulate", a.handleSimulate)
	a.router.Post("/simulate", a.handleSimulate)
	a.router.Get("/docs", a.handlePage("docs", "How the test works"))
	a.router.Get("/about", a.handlePage("about", "About"))

	if api != nil {
		a.router.Mount("/api", api)
	}
}

// renderTemplate renders into a buffer first so a failing template never
// leaves a half-written page.
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("template error for %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("error writing template response: %v", err)
	}
}
