package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ithesk/axeweb/domain"
)

// AuthMW validates portal access tokens and binds the session they refer to.
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithToken returns the middleware function. On success the request context
// carries "session_id" and "phone" for the handlers.
func (mw *AuthMW) WithToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := mw.tokenSvc.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		session, err := mw.sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		// A token minted for one phone must not reach another's session.
		if session.Phone != claims.Phone {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session mismatch"})
			return
		}

		c.Set("session_id", claims.SessionID)
		c.Set("phone", claims.Phone)
		c.Next()
	}
}
