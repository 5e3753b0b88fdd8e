// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AuthHandler binds the delegated identity provider to the session.
// Tokens are minted elsewhere; this handler only presents them to the
// session's identity adapter.
type AuthHandler struct {
	registry *session.Registry
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(registry *session.Registry) *AuthHandler {
	return &AuthHandler{
		registry: registry,
	}
}

// SignIn handles POST /auth/session
func (h *AuthHandler) SignIn(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	token := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Bearer token required",
		})
		return
	}

	ident, err := s.Provider.SignIn(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in",
		"data":    ident,
	})
}

// SignOut handles DELETE /auth/session
func (h *AuthHandler) SignOut(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.Provider.SignOut()

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out",
	})
}

// GetIdentity handles GET /auth/session
func (h *AuthHandler) GetIdentity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	ident, signedIn := s.Provider.Current()
	if !signedIn {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{"signed_in": false},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"signed_in": true,
			"identity":  ident,
		},
	})
}

func (h *AuthHandler) session(c *gin.Context) (*session.Session, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not resolved",
		})
		return nil, false
	}
	return h.registry.Get(sessionID), true
}
