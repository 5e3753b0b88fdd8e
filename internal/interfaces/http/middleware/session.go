// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the browsing-session ID
const SessionHeader = "X-Session-ID"

// SessionCookie is the fallback session carrier for browser clients
const SessionCookie = "storefront_session"

// Session resolves the caller's browsing-session ID, minting one when
// absent. A malformed ID is rejected outright rather than silently
// replaced: callers must not operate against a session they never held.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}

		if sessionID == "" {
			sessionID = uuid.New().String()
		} else if _, err := uuid.Parse(sessionID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid session ID",
			})
			c.Abort()
			return
		}

		c.Set("session_id", sessionID)
		c.Header(SessionHeader, sessionID)
		c.SetCookie(SessionCookie, sessionID, 0, "/", "", false, true)

		c.Next()
	}
}

// GetSessionIDFromContext extracts the session ID from gin context
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}
