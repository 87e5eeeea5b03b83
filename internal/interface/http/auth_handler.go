package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/internal/interface/middleware"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/response"
	"github.com/oksasatya/go-identity-service/pkg/validation"
)

type AuthHandler struct {
	Service *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Service: service, Cookies: cookies, Logger: logger}
}

type appUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	Gender    string `json:"gender,omitempty"`
}

func toAppUserResponse(u domain.AppUser) appUserResponse {
	return appUserResponse{
		ID:        u.ID.String(),
		Email:     u.Email.String(),
		FirstName: u.FirstName.String(),
		LastName:  u.LastName.String(),
		Role:      u.Role.String(),
		Gender:    u.Gender.String(),
	}
}

// SignUp POST /api/auth/signup {email, password, first_name?, last_name?, gender?}
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Gender    string `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	agg := domain.NewAggregator()
	var in application.SignUpInput
	var err error
	in.Email, err = domain.ParseEmail(req.Email)
	agg.Add("email", err)
	in.Password, err = domain.ParsePassword(req.Password)
	agg.Add("password", err)
	if req.FirstName != "" {
		in.FirstName, err = domain.ParseFirstName(req.FirstName)
		agg.Add("first_name", err)
	}
	if req.LastName != "" {
		in.LastName, err = domain.ParseLastName(req.LastName)
		agg.Add("last_name", err)
	}
	if req.Gender != "" {
		in.Gender, err = domain.ParseGender(req.Gender)
		agg.Add("gender", err)
	}
	if err := agg.Err(); err != nil {
		writeError(c, h.Logger, err)
		return
	}

	if err := h.Service.SignUp(c.Request.Context(), in); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, nil, "account created, verification email sent", nil)
}

// VerifyAccount POST /api/auth/verify {email, token}
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	agg := domain.NewAggregator()
	email, err := domain.ParseEmail(req.Email)
	agg.Add("email", err)
	if err := agg.Err(); err != nil {
		writeError(c, h.Logger, err)
		return
	}

	if err := h.Service.VerifyAccount(c.Request.Context(), email, req.Token); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account verified", nil)
}

// SignIn POST /api/auth/signin {email, password}
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	agg := domain.NewAggregator()
	email, err := domain.ParseEmail(req.Email)
	agg.Add("email", err)
	password, err := domain.ParsePassword(req.Password)
	agg.Add("password", err)
	if err := agg.Err(); err != nil {
		writeError(c, h.Logger, err)
		return
	}

	user, sessionID, err := h.Service.SignIn(c.Request.Context(), email, password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	h.Cookies.SetSession(c, sessionID, h.Service.SessionTTL())
	response.Success(c, http.StatusOK, toAppUserResponse(user), "signed in", nil)
}

// ForgotPassword POST /api/auth/forgot-password {email}
// Always succeeds for well-formed emails so account existence leaks nothing.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	agg := domain.NewAggregator()
	email, err := domain.ParseEmail(req.Email)
	agg.Add("email", err)
	if err := agg.Err(); err != nil {
		writeError(c, h.Logger, err)
		return
	}

	if err := h.Service.ForgotPassword(c.Request.Context(), email); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "if the account exists, a reset email has been sent", nil)
}

// ResetPassword POST /api/auth/reset-password {email, token, new_password}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	agg := domain.NewAggregator()
	email, err := domain.ParseEmail(req.Email)
	agg.Add("email", err)
	password, err := domain.ParsePassword(req.NewPassword)
	agg.Add("new_password", err)
	if err := agg.Err(); err != nil {
		writeError(c, h.Logger, err)
		return
	}

	if err := h.Service.ResetPassword(c.Request.Context(), email, req.Token, password); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}

// Logout POST /api/auth/logout
// Idempotent: a missing or stale cookie still clears and returns OK.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(helpers.SessionCookieName)
	if err == nil && sessionID != "" {
		if err := h.Service.Logout(c.Request.Context(), sessionID); err != nil {
			writeError(c, h.Logger, err)
			return
		}
	}
	h.Cookies.ClearSession(c)
	response.Success[any](c, http.StatusOK, nil, "signed out", nil)
}

// GetMe GET /api/auth/me (session required)
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.Success(c, http.StatusOK, toAppUserResponse(user), "current user", nil)
}
