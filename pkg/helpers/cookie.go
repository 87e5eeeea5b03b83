package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName    = "session_id"
	OAuthStateCookieName = "oauth_state"
)

// CookieManager writes the session and OAuth2-state cookies. Both are
// HttpOnly; transport security comes from the Secure flag in production.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

func (m *CookieManager) SetSession(c *gin.Context, sessionID string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, sessionID, int(ttl.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", m.Domain, m.Secure, true)
}

// SetOAuthState stores the state for the short window between redirect-out
// and callback so the two legs can be compared.
func (m *CookieManager) SetOAuthState(c *gin.Context, state string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookieName, state, int(ttl.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) ClearOAuthState(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookieName, "", -1, "/", m.Domain, m.Secure, true)
}
