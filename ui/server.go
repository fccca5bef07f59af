package ui

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"heartrisk/domain/patient"
	apperrors "heartrisk/internal/errors"
	"heartrisk/internal/scoring"
	"heartrisk/ui/middleware"

	"github.com/gin-gonic/gin"
)

// ServerConfig holds settings of the full dashboard.
type ServerConfig struct {
	DefaultProfile string
	CORSOrigins    []string
}

// Server is the full dashboard: every profile, the EDA dashboard and the JSON API.
type Server struct {
	router    *gin.Engine
	templates *template.Template
	deps      *Deps
	config    ServerConfig
}

// NewServer creates the dashboard. The default profile must exist.
func NewServer(config ServerConfig, deps *Deps) (*Server, error) {
	if _, err := deps.Profiles.Get(config.DefaultProfile); err != nil {
		return nil, apperrors.Wrapf(apperrors.WithCode(apperrors.CodeConfigInvalid, err), "DEFAULT_PROFILE %q", config.DefaultProfile)
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		deps:      deps,
		config:    config,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	form := s.router.Group("/p/:profile", middleware.ResolveProfile(s.deps.Profiles, s.handleUnknownProfile))
	form.GET("", s.handleForm)
	form.POST("/predict", s.handlePredict)

	s.router.GET("/eda", s.handleEDA)
	s.router.GET("/eda/charts/:file", s.handleChartSVG)

	api := s.router.Group("/api/v1", apiCORS(s.config.CORSOrigins))
	api.GET("/health", s.handleHealth)
	api.GET("/model", s.handleModel)
	api.GET("/profiles", s.handleProfiles)
	api.POST("/predict", s.handleAPIPredict)
	api.GET("/eda/summary", s.handleEDASummary)
	api.GET("/eda/charts/:kind", s.handleEDAChart)

	s.router.NoRoute(func(c *gin.Context) {
		s.renderTemplate(c, http.StatusNotFound, "error.html", s.deps.errorPage(http.StatusNotFound, errors.New("page not found"), s.nav("")))
	})
}

// nav lists every profile, plus the dashboard when enabled.
func (s *Server) nav(active string) []navLink {
	var links []navLink
	for _, p := range s.deps.Profiles.List() {
		key := p.Key.String()
		links = append(links, navLink{Label: key, Href: "/p/" + key, Active: key == active})
	}
	if s.deps.Dashboard != nil {
		links = append(links, navLink{Label: "dashboard", Href: "/eda", Active: active == "/eda"})
	}
	return links
}

// renderTemplate writes a full page with the given status.
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	body, err := renderHTML(s.templates, name, data)
	if err != nil {
		s.deps.logger().Error("%v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", body)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Redirect(http.StatusFound, "/p/"+strings.ToLower(s.config.DefaultProfile))
}

func (s *Server) handleUnknownProfile(c *gin.Context, err error) {
	s.renderTemplate(c, http.StatusNotFound, "error.html", s.deps.errorPage(http.StatusNotFound, err, s.nav("")))
}

func (s *Server) handleForm(c *gin.Context) {
	p := middleware.Profile(c)
	key := p.Key.String()
	page := s.deps.formPage(c.Request.Context(), p, nil, "/p/"+key+"/predict", s.nav(key))
	s.renderTemplate(c, http.StatusOK, "form.html", page)
}

func (s *Server) handlePredict(c *gin.Context) {
	p := middleware.Profile(c)
	key := p.Key.String()
	if err := c.Request.ParseForm(); err != nil {
		s.renderTemplate(c, http.StatusBadRequest, "error.html", s.deps.errorPage(http.StatusBadRequest, err, s.nav(key)))
		return
	}
	page, status := s.deps.predict(c.Request.Context(), p, c.Request.PostForm, "/p/"+key+"/predict", s.nav(key))
	s.renderTemplate(c, status, "form.html", page)
}

func (s *Server) handleEDA(c *gin.Context) {
	if s.deps.Dashboard == nil {
		s.renderTemplate(c, http.StatusNotFound, "error.html", s.deps.errorPage(http.StatusNotFound, errors.New("the data dashboard is disabled"), s.nav("")))
		return
	}
	page, status := s.deps.edaPage(c.Request.Context(), c.Query("chart"), s.nav("/eda"))
	s.renderTemplate(c, status, "eda.html", page)
}

func (s *Server) handleChartSVG(c *gin.Context) {
	file := c.Param("file")
	kind := strings.TrimSuffix(file, ".svg")
	if s.deps.Dashboard == nil || kind == file {
		c.String(http.StatusNotFound, "chart not found")
		return
	}
	var buf bytes.Buffer
	if err := s.deps.Dashboard.WriteSVG(c.Request.Context(), kind, &buf); err != nil {
		c.String(apperrors.HTTPStatus(err), err.Error())
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

type healthReport struct {
	Model    interface{} `json:"model"`
	Dataset  interface{} `json:"dataset,omitempty"`
	Profiles int         `json:"profiles"`
}

func (s *Server) handleHealth(c *gin.Context) {
	st := s.deps.Scoring.Status()
	report := healthReport{Model: st, Profiles: len(s.deps.Profiles.List())}
	if s.deps.Dashboard != nil {
		report.Dataset = gin.H{"source": s.deps.Dashboard.Source(), "cache": s.deps.Dashboard.Status()}
	}
	if st.State != scoring.StateReady {
		c.JSON(http.StatusServiceUnavailable, APIResponse{
			Status:  "error",
			Message: "model " + string(st.State),
			Data:    report,
			Error:   st.Error,
			Code:    apperrors.CodeArtifactUnavailable,
		})
		return
	}
	success(c, http.StatusOK, report, "ok")
}

func (s *Server) handleModel(c *gin.Context) {
	clf, err := s.deps.Scoring.Classifier(c.Request.Context())
	if err != nil {
		fail(c, err, "model unavailable")
		return
	}
	success(c, http.StatusOK, clf.Info(), "")
}

func (s *Server) handleProfiles(c *gin.Context) {
	success(c, http.StatusOK, s.deps.Profiles.List(), "")
}

func (s *Server) handleAPIPredict(c *gin.Context) {
	// availability first, before the body is even decoded
	if _, err := s.deps.Scoring.Classifier(c.Request.Context()); err != nil {
		fail(c, err, "model unavailable")
		return
	}

	var in patient.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		failWith(c, http.StatusBadRequest, apperrors.CodeInvalidInput, err, "malformed request body")
		return
	}
	a, err := s.deps.Scoring.Score(c.Request.Context(), in)
	if err != nil {
		fail(c, err, "scoring failed")
		return
	}
	success(c, http.StatusOK, a, a.Message)
}

func (s *Server) handleEDASummary(c *gin.Context) {
	if s.deps.Dashboard == nil {
		fail(c, apperrors.NotFound("data dashboard"), "dashboard disabled")
		return
	}
	snap, err := s.deps.Dashboard.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err, "dataset unavailable")
		return
	}
	success(c, http.StatusOK, snap, "")
}

func (s *Server) handleEDAChart(c *gin.Context) {
	if s.deps.Dashboard == nil {
		fail(c, apperrors.NotFound("data dashboard"), "dashboard disabled")
		return
	}
	chart, err := s.deps.Dashboard.Chart(c.Request.Context(), c.Param("kind"))
	if err != nil {
		fail(c, err, "chart unavailable")
		return
	}
	success(c, http.StatusOK, chart, "")
}
