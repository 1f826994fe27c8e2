package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/trivia-backend/internal/response"
	"github.com/stemsi/trivia-backend/internal/service"
)

// CheckActiveSession rejects tokens whose session was signed out.
// Guest requests (no claims) pass through.
func CheckActiveSession(v SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		if err := v.ValidateSession(c.Request.Context(), claims); err != nil {
			if errors.Is(err, service.ErrSessionInvalidated) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
				return
			}
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable)
			return
		}

		c.Next()
	}
}
