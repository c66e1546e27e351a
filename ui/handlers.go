package ui

import (
	"log"
	"net/http"
	"strconv"

	"exoml/domain/core"
	"exoml/internal/modes"
	"exoml/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleIndex(c *gin.Context) {
	name := fragments.Index
	if c.GetHeader("HX-Request") == "true" {
		name = fragments.Viewer
	}
	s.renderTemplate(c, http.StatusOK, name, currentSession(c).Controller.View())
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Controller.View())
}

// apply maps a controller result onto the response. Silent no-ops
// re-render the unchanged view; malformed input is a 400.
func (s *Server) apply(c *gin.Context, err error) {
	switch {
	case err == nil, core.IsSilentNoOp(err):
		s.respond(c)
	case core.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[Viewer] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func formInt(c *gin.Context, key string) (int, bool) {
	raw := c.PostForm(key)
	if raw == "" {
		raw = c.Query(key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be an integer"})
		return 0, false
	}
	return v, true
}

func formFloat(c *gin.Context, key string) (float64, bool) {
	v, err := strconv.ParseFloat(c.PostForm(key), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a number"})
		return 0, false
	}
	return v, true
}

func (s *Server) handlePrevious(c *gin.Context) {
	s.apply(c, currentSession(c).Controller.Previous())
}

func (s *Server) handleNext(c *gin.Context) {
	s.apply(c, currentSession(c).Controller.Next())
}

func (s *Server) handleSelect(c *gin.Context) {
	index, ok := formInt(c, "index")
	if !ok {
		return
	}
	s.apply(c, currentSession(c).Controller.SelectSample(index))
}

// handleSetCriterion moves a slider. Touching a criterion also brings its
// diagnostic tab to the front.
func (s *Server) handleSetCriterion(c *gin.Context) {
	value, ok := formInt(c, "value")
	if !ok {
		return
	}
	ctrl := currentSession(c).Controller
	key := c.Param("key")
	err := ctrl.SetCriterion(key, value)
	if err == nil {
		err = ctrl.SwitchTab(key)
	}
	s.apply(c, err)
}

func (s *Server) handleResetCriteria(c *gin.Context) {
	currentSession(c).Controller.ResetCriteria()
	s.respond(c)
}

func (s *Server) handleSwitchTab(c *gin.Context) {
	s.apply(c, currentSession(c).Controller.SwitchTab(c.Param("name")))
}

// handleTestMode starts a model test. The side comes from the click
// position ("x" within "width") or an explicit "side".
func (s *Server) handleTestMode(c *gin.Context) {
	var side modes.Side
	if raw := c.PostForm("side"); raw != "" {
		parsed, err := modes.ParseSide(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		side = parsed
	} else {
		x, ok := formFloat(c, "x")
		if !ok {
			return
		}
		width, ok := formFloat(c, "width")
		if !ok {
			return
		}
		side = modes.SideFromClick(x, width)
	}
	s.apply(c, currentSession(c).Machine.StartTest(side))
}

func (s *Server) handleExpertMode(c *gin.Context) {
	currentSession(c).Machine.EnterExpert()
	s.respond(c)
}

// handleSubmit starts a retrain and records the working criteria as the
// correction being submitted
func (s *Server) handleSubmit(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Machine.StartRetrain(); err != nil {
		s.apply(c, err)
		return
	}
	if _, err := s.deps.Saver.RecordFeedback(c.Request.Context(), sess.ID, sess.Controller.State()); err != nil {
		log.Printf("[Viewer] Feedback for session %s not stored: %v", sess.ID, err)
	}
	s.respond(c)
}
