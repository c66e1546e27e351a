package ui

import (
	"errors"
	"log"
	"net/http"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal/export"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSave(c *gin.Context) {
	sess := currentSession(c)
	saved, err := s.deps.Saver.SaveCandidate(c.Request.Context(), sess.ID, sess.Controller.State())
	if err != nil {
		log.Printf("[Viewer] Save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save candidate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Candidate saved successfully!",
		"candidate": saved,
	})
}

func (s *Server) handleExportData(c *gin.Context) {
	st := currentSession(c).Controller.State()
	body, err := export.NewRecord(st, core.Now()).JSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode export"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.DataFileName(st.Sample.ID)+`"`)
	c.Data(http.StatusOK, "application/json", body)
}

// handleExportVisualization downloads the active tab's chart. A chart that
// cannot be drawn exports nothing.
func (s *Server) handleExportVisualization(c *gin.Context) {
	st := currentSession(c).Controller.State()
	png, ok := s.renderChart(c, st.Sample, st.Tab)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.VisualizationFileName(st.Sample.ID)+`"`)
	c.Data(http.StatusOK, "image/png", png)
}

// handleChart renders the current sample's chart for ?tab=, defaulting to
// the active tab
func (s *Server) handleChart(c *gin.Context) {
	st := currentSession(c).Controller.State()
	tab, ok := chartTab(c, st.Tab)
	if !ok {
		return
	}

	png, ok := s.renderChart(c, st.Sample, tab)
	if !ok {
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) renderChart(c *gin.Context, smp sample.Sample, tab sample.Criterion) ([]byte, bool) {
	png, err := s.deps.Charts.RenderPNG(c.Request.Context(), smp, tab)
	switch {
	case err == nil:
		return png, true
	case errors.Is(err, core.ErrNoChart):
		c.Status(http.StatusNoContent)
	case c.Request.Context().Err() != nil:
		c.Abort()
	default:
		log.Printf("[Viewer] Chart render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
	}
	return nil, false
}

// handleChartSummary reports where the current sample sits in the tab's
// background population
func (s *Server) handleChartSummary(c *gin.Context) {
	st := currentSession(c).Controller.State()
	tab, ok := chartTab(c, st.Tab)
	if !ok {
		return
	}

	sum, err := s.deps.Charts.Summary(c.Request.Context(), st.Sample, tab)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"tab": tab.String(), "sample_id": st.Sample.ID, "summary": sum})
	case errors.Is(err, core.ErrNoChart):
		c.Status(http.StatusNoContent)
	case c.Request.Context().Err() != nil:
		c.Abort()
	default:
		log.Printf("[Viewer] Chart summary failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize chart"})
	}
}

func chartTab(c *gin.Context, active sample.Criterion) (sample.Criterion, bool) {
	raw := c.Query("tab")
	if raw == "" {
		return active, true
	}
	tab, err := sample.ParseCriterion(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": core.ErrUnknownTab.Error()})
		return 0, false
	}
	return tab, true
}
