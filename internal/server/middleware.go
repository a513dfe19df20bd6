package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session_id"

// thirty days, matching the cookie the original frontend expects
const sessionMaxAge = 30 * 24 * 3600

// corsMiddleware sets CORS headers for allowed origins and answers
// OPTIONS preflight requests.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(origin, allowedOrigins) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// sessionMiddleware resolves the caller's stable session identifier. A
// request without a session cookie gets a fresh uuid, persisted and sent
// back as an HttpOnly cookie.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()

			if err := s.store.EnsureSession(sessionID); err != nil {
				s.logger.Error(c.Request.Context(), "Failed to persist session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "session storage error"})
				return
			}

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sessionID, sessionMaxAge, "/", "", true, true)
		}

		c.Set(sessionCookie, sessionID)
		c.Next()
	}
}
