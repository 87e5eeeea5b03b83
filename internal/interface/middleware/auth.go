package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-identity-service/internal/apperr"
	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/response"
)

const currentUserKey = "currentUser"

// Auth validates the session cookie and slides its expiry. The resolved
// user is set in the Gin context for handlers downstream.
func Auth(service *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || sessionID == "" {
			response.AbortError[any](c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		user, err := service.Authenticate(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthorized) {
				response.AbortError[any](c, http.StatusUnauthorized, "unauthorized", nil)
			} else {
				response.AbortError[any](c, http.StatusInternalServerError, "something went wrong", nil)
			}
			return
		}

		c.Set(currentUserKey, user)
		c.Set("userID", user.ID.String()) // rate limit keying
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth.
func CurrentUser(c *gin.Context) (domain.AppUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return domain.AppUser{}, false
	}
	user, ok := v.(domain.AppUser)
	return user, ok
}
