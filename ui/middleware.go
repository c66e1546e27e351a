package ui

import (
	"log"
	"net/http"

	"exoml/domain/core"
	"exoml/internal/api"
	"exoml/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie   = "exoml_session"
	sessionValueKey = "viewer_session"
)

// EnsureSession attaches the browser's viewer session, creating one (and
// its cookie) when the cookie is missing or the session has expired
func EnsureSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if id, err := core.ParseSessionID(raw); err == nil {
				sess, _ = sessions.Touch(id)
			}
		}

		if sess == nil {
			created, err := sessions.Create()
			if err != nil {
				log.Printf("[EnsureSession] Failed to create session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
				return
			}
			sess = created
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sess.ID.String(), 0, "/", "", false, true)
		}

		c.Set(sessionValueKey, sess)
		c.Set(api.SessionKey, sess.ID.String())
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionValueKey).(*session.Session)
}
