package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

type OAuthHandler struct {
	Service   *application.AuthService
	Cookies   *helpers.CookieManager
	Logger    *logrus.Logger
	ClientURL string
	StateTTL  time.Duration
}

func NewOAuthHandler(service *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger, clientURL string, stateTTL time.Duration) *OAuthHandler {
	return &OAuthHandler{
		Service:   service,
		Cookies:   cookies,
		Logger:    logger,
		ClientURL: clientURL,
		StateTTL:  stateTTL,
	}
}

// RedirectOut GET /api/auth/oauth2/:provider?redirect_to=/path
// Sends the browser to the provider consent page. The state travels both
// in the authorization URL and in a short-lived cookie.
func (h *OAuthHandler) RedirectOut(c *gin.Context) {
	provider := application.OAuth2Provider(c.Param("provider"))
	redirectPath := sanitizeRedirectPath(c.Query("redirect_to"))

	authURL, state, err := h.Service.GenerateOAuth2RedirectURL(provider, redirectPath)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	h.Cookies.SetOAuthState(c, state.String(), h.StateTTL)
	c.Redirect(http.StatusFound, authURL)
}

// Callback GET /api/auth/oauth2/:provider/callback?state=...&code=...
// Completes the exchange and lands the browser back on the client app.
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := application.OAuth2Provider(c.Param("provider"))

	cookieState, _ := c.Cookie(helpers.OAuthStateCookieName)

	agg := domain.NewAggregator()
	var in application.OAuth2SignInInput
	var err error
	in.State, err = domain.ParseOAuth2State(c.Query("state"))
	agg.Add("state", err)
	in.CookieState, err = domain.ParseOAuth2State(cookieState)
	agg.Add("state", err)
	in.Code, err = domain.ParseOAuth2Code(c.Query("code"))
	agg.Add("code", err)
	if err := agg.Err(); err != nil {
		h.Cookies.ClearOAuthState(c)
		writeError(c, h.Logger, err)
		return
	}

	sessionID, redirectPath, err := h.Service.OAuth2SignIn(c.Request.Context(), provider, in)
	h.Cookies.ClearOAuthState(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	h.Cookies.SetSession(c, sessionID, h.Service.SessionTTL())
	c.Redirect(http.StatusFound, h.ClientURL+redirectPath)
}

// sanitizeRedirectPath keeps the post-login redirect on our own origin.
func sanitizeRedirectPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
