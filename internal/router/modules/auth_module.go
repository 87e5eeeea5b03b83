package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-identity-service/internal/container"
	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
	"github.com/oksasatya/go-identity-service/internal/interface/middleware"
)

type AuthModule struct {
	Auth  *handlers.AuthHandler
	OAuth *handlers.OAuthHandler
}

func NewAuthModule(auth *handlers.AuthHandler, oauth *handlers.OAuthHandler) *AuthModule {
	return &AuthModule{Auth: auth, OAuth: oauth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public endpoints with IP-based rate limits
	signUpLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signInLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signUpLimiter, m.Auth.SignUp)
	rg.POST("/auth/signin", signInLimiter, m.Auth.SignIn)
	rg.POST("/auth/verify", verifyLimiter, m.Auth.VerifyAccount)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Auth.ForgotPassword)
	rg.POST("/auth/reset-password", resetLimiter, m.Auth.ResetPassword)
	rg.POST("/auth/logout", m.Auth.Logout)

	rg.GET("/auth/oauth2/:provider", signInLimiter, m.OAuth.RedirectOut)
	rg.GET("/auth/oauth2/:provider/callback", signInLimiter, m.OAuth.Callback)

	// Session-protected endpoints with per-user rate limit
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth.Service))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/auth/me", m.Auth.GetMe)
	}
}
