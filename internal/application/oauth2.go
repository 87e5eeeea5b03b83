package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/oksasatya/go-identity-service/internal/apperr"
	"github.com/oksasatya/go-identity-service/internal/domain"
)

// OAuth2Provider is the closed set of federated identity providers.
// Facebook is modeled but not yet implemented; call sites must handle the
// explicit "not supported" result rather than an absent variant.
type OAuth2Provider string

const (
	ProviderGoogle   OAuth2Provider = "google"
	ProviderFacebook OAuth2Provider = "facebook"
)

const (
	msgStateMismatch       = "Something went wrong"
	msgEmailNotVerified    = "Email is not verified"
	msgProviderUnsupported = "Provider not supported"
)

// OAuth2Config holds the Google client credentials and endpoints. The
// endpoints default to Google's public URLs and are overridable so tests
// can point them at local servers.
type OAuth2Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	GoogleAuthURL     string
	GoogleTokenURL    string
	GoogleUserInfoURL string
}

func (c *OAuth2Config) authURL() string {
	if c.GoogleAuthURL != "" {
		return c.GoogleAuthURL
	}
	return "https://accounts.google.com/o/oauth2/v2/auth"
}

func (c *OAuth2Config) tokenURL() string {
	if c.GoogleTokenURL != "" {
		return c.GoogleTokenURL
	}
	return "https://oauth2.googleapis.com/token"
}

func (c *OAuth2Config) userInfoURL() string {
	if c.GoogleUserInfoURL != "" {
		return c.GoogleUserInfoURL
	}
	return "https://openidconnect.googleapis.com/v1/userinfo"
}

type OAuth2SignInInput struct {
	State       domain.OAuth2State
	CookieState domain.OAuth2State
	Code        domain.OAuth2Code
}

// GenerateOAuth2RedirectURL builds the provider authorization URL carrying
// a fresh state. The caller places the same state in a short-lived cookie
// for the callback comparison.
func (s *AuthService) GenerateOAuth2RedirectURL(provider OAuth2Provider, redirectPath string) (string, domain.OAuth2State, error) {
	state := domain.NewOAuth2State(redirectPath)

	switch provider {
	case ProviderGoogle:
		redirectURL, err := s.googleRedirectURL(state)
		if err != nil {
			return "", domain.OAuth2State{}, err
		}
		return redirectURL, state, nil
	case ProviderFacebook:
		return "", domain.OAuth2State{}, apperr.Conflict(msgProviderUnsupported)
	default:
		return "", domain.OAuth2State{}, apperr.Conflict(msgProviderUnsupported)
	}
}

// OAuth2SignIn completes the callback leg: the returned state and the
// cookie state must be structurally equal in both components, defeating
// CSRF and replay across sessions.
func (s *AuthService) OAuth2SignIn(ctx context.Context, provider OAuth2Provider, in OAuth2SignInInput) (string, string, error) {
	if !in.State.Equal(in.CookieState) {
		return "", "", apperr.Conflict(msgStateMismatch)
	}

	switch provider {
	case ProviderGoogle:
		sessionID, err := s.googleSignIn(ctx, in.Code)
		if err != nil {
			return "", "", err
		}
		return sessionID, in.State.RedirectPath(), nil
	case ProviderFacebook:
		return "", "", apperr.Conflict(msgProviderUnsupported)
	default:
		return "", "", apperr.Conflict(msgProviderUnsupported)
	}
}

// googleSignIn resolves the Google profile to a local account, creating or
// linking as needed, and opens a session. Accounts reached through a
// verified Google identity are always marked verified.
func (s *AuthService) googleSignIn(ctx context.Context, code domain.OAuth2Code) (string, error) {
	profile, err := s.fetchGoogleUser(ctx, code)
	if err != nil {
		return "", err
	}

	user, err := s.repo.GetByEmail(ctx, profile.email)
	if err != nil {
		return "", apperr.Internal(err)
	}

	var userID domain.UserID
	switch {
	case user == nil:
		userID, err = s.repo.Create(ctx, domain.NewUser{
			Email:      profile.email,
			GoogleID:   profile.sub,
			IsVerified: true,
		})
		if err != nil {
			return "", apperr.Internal(err)
		}
	case user.GoogleID.IsZero():
		verified := true
		patch := domain.UpdateUser{GoogleID: &profile.sub, IsVerified: &verified}
		if err := s.repo.Update(ctx, user.ID, patch); err != nil {
			return "", apperr.Internal(err)
		}
		userID = user.ID
	default:
		userID = user.ID
	}

	sessionID, err := s.sessions.Open(ctx, userID, s.cfg.SessionTTL)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return sessionID, nil
}

type googleProfile struct {
	sub   domain.GoogleID
	email domain.EmailAddress
}

type googleTokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type googleUserResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// fetchGoogleUser exchanges the authorization code for an access token and
// fetches the user-info profile. The provider must report the email as
// verified.
func (s *AuthService) fetchGoogleUser(ctx context.Context, code domain.OAuth2Code) (googleProfile, error) {
	form := url.Values{
		"code":          {code.String()},
		"client_id":     {s.oauth.GoogleClientID},
		"client_secret": {s.oauth.GoogleClientSecret},
		"redirect_uri":  {s.oauth.GoogleRedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.oauth.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return googleProfile{}, apperr.Internal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return googleProfile{}, apperr.Internal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var tokenResp googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return googleProfile{}, apperr.Internalf("failed to decode google token response: %w", err)
	}
	if tokenResp.Error != "" || tokenResp.AccessToken == "" {
		return googleProfile{}, apperr.Internalf("google returned an error: %s - %s",
			tokenResp.Error, tokenResp.ErrorDescription)
	}

	userReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.oauth.userInfoURL(), nil)
	if err != nil {
		return googleProfile{}, apperr.Internal(err)
	}
	userReq.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)

	userResp, err := s.httpClient.Do(userReq)
	if err != nil {
		return googleProfile{}, apperr.Internal(err)
	}
	defer func() { _ = userResp.Body.Close() }()

	var user googleUserResponse
	if err := json.NewDecoder(userResp.Body).Decode(&user); err != nil {
		return googleProfile{}, apperr.Internalf("failed to decode google user response: %w", err)
	}
	if !user.EmailVerified {
		return googleProfile{}, apperr.Conflict(msgEmailNotVerified)
	}

	sub, err := domain.ParseGoogleID(user.Sub)
	if err != nil {
		return googleProfile{}, apperr.Internalf("google user id rejected: %w", err)
	}
	email, err := domain.ParseEmail(user.Email)
	if err != nil {
		return googleProfile{}, apperr.Internalf("google email rejected: %w", err)
	}
	return googleProfile{sub: sub, email: email}, nil
}

func (s *AuthService) googleRedirectURL(state domain.OAuth2State) (string, error) {
	base, err := url.Parse(s.oauth.authURL())
	if err != nil {
		return "", apperr.Internalf("failed to build google redirect url: %w", err)
	}
	q := url.Values{
		"client_id":     {s.oauth.GoogleClientID},
		"redirect_uri":  {s.oauth.GoogleRedirectURL},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"access_type":   {"offline"},
		"state":         {state.String()},
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}
