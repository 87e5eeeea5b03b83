package router

import (
	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/container"
	pginfra "github.com/oksasatya/go-identity-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-identity-service/internal/infrastructure/redisdb"
	handlers "github.com/oksasatya/go-identity-service/internal/interface/http"
	"github.com/oksasatya/go-identity-service/internal/router/modules"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

// InitModules wires the auth module from the container singletons and
// registers it with the router registry.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	cache := redisdb.New(container.GetRedis())

	service := application.NewAuthService(
		repo,
		cache,
		container.GetMailer(),
		container.GetLogger(),
		application.Config{
			SessionTTL:       cfg.SessionTTL,
			VerificationTTL:  cfg.VerificationTTL,
			ResetPasswordTTL: cfg.ResetPasswordTTL,
		},
		application.OAuth2Config{
			GoogleClientID:     cfg.GoogleClientID,
			GoogleClientSecret: cfg.GoogleClientSecret,
			GoogleRedirectURL:  cfg.GoogleRedirectURL,
		},
		nil,
	)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(service, cookies, container.GetLogger())
	oauthHandler := handlers.NewOAuthHandler(service, cookies, container.GetLogger(), cfg.ClientURL, cfg.OAuthStateTTL)

	r.Add(modules.NewAuthModule(authHandler, oauthHandler))
}
