package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"exoml/internal/api"
	"exoml/internal/charts"
	"exoml/internal/export"
	"exoml/internal/session"
	"exoml/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Dependencies are the components the viewer handlers drive
type Dependencies struct {
	Sessions *session.Manager
	Charts   *charts.Renderer
	Saver    *export.Saver
	SSEHub   *api.SSEHub
}

// Server is the gin web server for the ExoML viewer
type Server struct {
	router    *gin.Engine
	templates *template.Template
	deps      Dependencies
}

// NewServer parses the embedded templates and registers all routes
func NewServer(deps Dependencies) (*Server, error) {
	if deps.Sessions == nil || deps.Charts == nil || deps.Saver == nil || deps.SSEHub == nil {
		return nil, fmt.Errorf("viewer dependencies are incomplete")
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.Default(),
		templates: templates,
		deps:      deps,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
	} else {
		s.router.StaticFS("/static", http.FS(staticFS))
	}
}

func (s *Server) setupRoutes() {
	v := s.router.Group("/", EnsureSession(s.deps.Sessions))

	v.GET("/", s.handleIndex)
	v.GET("/api/state", s.handleState)
	v.GET("/events", s.deps.SSEHub.HandleSSE)

	// Navigation and interaction
	v.POST("/sample/prev", s.handlePrevious)
	v.POST("/sample/next", s.handleNext)
	v.POST("/sample/select", s.handleSelect)
	v.POST("/criteria/reset", s.handleResetCriteria)
	v.POST("/criteria/:key", s.handleSetCriterion)
	v.POST("/tab/:name", s.handleSwitchTab)

	// Timed actions
	v.POST("/mode/test", s.handleTestMode)
	v.POST("/mode/expert", s.handleExpertMode)
	v.POST("/submit", s.handleSubmit)

	// Save and export
	v.POST("/save", s.handleSave)
	v.GET("/export/data", s.handleExportData)
	v.GET("/export/visualization", s.handleExportVisualization)

	// Charts and tooltips
	v.GET("/chart.png", s.handleChart)
	v.GET("/chart/summary", s.handleChartSummary)
	v.GET("/tooltip/:key", s.handleTooltip)
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server on addr
func (s *Server) Start(addr string) error {
	log.Printf("Starting ExoML viewer on http://%s", addr)
	return s.router.Run(addr)
}

// renderTemplate renders to a buffer first so a failing template never
// leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Template error for %s: %v", name, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// respond re-renders after an action: the viewer fragment for HTMX, the
// view as JSON for API clients, otherwise a redirect back to the page.
func (s *Server) respond(c *gin.Context) {
	view := currentSession(c).Controller.View()
	switch {
	case c.GetHeader("HX-Request") == "true":
		s.renderTemplate(c, http.StatusOK, fragments.Viewer, view)
	case strings.Contains(c.GetHeader("Accept"), "application/json"):
		c.JSON(http.StatusOK, view)
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}
