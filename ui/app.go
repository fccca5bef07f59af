package ui

import (
	"encoding/json"
	"html/template"
	"net/http"

	"heartrisk/internal/profiles"
	"heartrisk/internal/scoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App is the lean predictor: a single profile, no dashboard, no JSON API.
type App struct {
	router    *chi.Mux
	templates *template.Template
	deps      *Deps
	profile   *profiles.Profile
}

// AppConfig holds UI application configuration
type AppConfig struct {
	Profile string
}

// NewApp creates the lean predictor for one profile.
func NewApp(config AppConfig, deps *Deps) (*App, error) {
	p, err := deps.Profiles.Get(config.Profile)
	if err != nil {
		return nil, err
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	app := &App{
		router:    chi.NewRouter(),
		templates: templates,
		deps:      deps,
		profile:   p,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// Handler exposes the router for http.Server and tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFS())))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/predict", a.handlePredict)
	a.router.Get("/healthz", a.handleHealthz)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := a.deps.formPage(r.Context(), a.profile, nil, "/predict", nil)
	a.renderTemplate(w, http.StatusOK, "form.html", page)
}

func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderTemplate(w, http.StatusBadRequest, "error.html", a.deps.errorPage(http.StatusBadRequest, err, nil))
		return
	}
	page, status := a.deps.predict(r.Context(), a.profile, r.PostForm, "/predict", nil)
	a.renderTemplate(w, status, "form.html", page)
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	st := a.deps.Scoring.Status()
	status := http.StatusOK
	if st.State != scoring.StateReady {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  st.State,
		"profile": a.profile.Key,
		"model":   st,
	}); err != nil {
		a.deps.logger().Warn("healthz encode: %v", err)
	}
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	body, err := renderHTML(a.templates, name, data)
	if err != nil {
		a.deps.logger().Error("%v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		a.deps.logger().Warn("write response: %v", err)
	}
}
