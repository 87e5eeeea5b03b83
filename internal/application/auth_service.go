package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/apperr"
	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgAccountExists      = "An account with this email already exists"
)

// Config carries the lifecycle durations for sessions and tokens.
type Config struct {
	SessionTTL       time.Duration
	VerificationTTL  time.Duration
	ResetPasswordTTL time.Duration
}

// AuthService orchestrates domain validation, the repository, the token
// manager, the session store and the mailer for every credential flow.
// It holds no mutable state of its own; every collaborator handle is safe
// for concurrent use.
type AuthService struct {
	repo     repository.UserRepository
	tokens   *TokenManager
	sessions *SessionStore
	mailer   Mailer
	logger   *logrus.Logger
	cfg      Config

	oauth      OAuth2Config
	httpClient *http.Client
}

func NewAuthService(
	repo repository.UserRepository,
	cache Cache,
	mailer Mailer,
	logger *logrus.Logger,
	cfg Config,
	oauth OAuth2Config,
	httpClient *http.Client,
) *AuthService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &AuthService{
		repo:       repo,
		tokens:     NewTokenManager(cache),
		sessions:   NewSessionStore(cache),
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
		oauth:      oauth,
		httpClient: httpClient,
	}
}

type SignUpInput struct {
	Email     domain.EmailAddress
	Password  domain.Password
	FirstName domain.FirstName
	LastName  domain.LastName
	Gender    domain.Gender
}

// SignUp creates an unverified account and dispatches the verification
// email. The token write and the email send run concurrently; see
// issueAndSend for the failure policy.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) error {
	hashed, err := helpers.HashPassword(in.Password.String())
	if err != nil {
		return apperr.Internal(err)
	}
	hashedPassword, err := domain.ParseHashedPassword(hashed)
	if err != nil {
		return apperr.Internal(err)
	}

	userID, err := s.repo.Create(ctx, domain.NewUser{
		Email:     in.Email,
		Password:  hashedPassword,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return apperr.Conflict(msgAccountExists)
		}
		return apperr.Internal(err)
	}

	return s.issueAndSend(ctx, PurposeVerification, userID, in.Email,
		s.cfg.VerificationTTL, s.mailer.SendVerificationEmail)
}

// VerifyAccount redeems the verification token and marks the account
// verified. The resolved user must be non-banned and match the supplied
// email exactly.
func (s *AuthService) VerifyAccount(ctx context.Context, email domain.EmailAddress, token string) error {
	user, err := s.userByToken(ctx, PurposeVerification, email, token)
	if err != nil {
		return err
	}

	verified := true
	if err := s.repo.Update(ctx, user.ID, domain.UpdateUser{IsVerified: &verified}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SignIn authenticates by password and opens a session. Every failure
// mode surfaces the same Conflict so responses cannot be used to
// enumerate accounts.
func (s *AuthService) SignIn(ctx context.Context, email domain.EmailAddress, password domain.Password) (domain.AppUser, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return domain.AppUser{}, "", apperr.Internal(err)
	}
	if user == nil || !user.CanAuthenticate() || user.Password.IsZero() {
		return domain.AppUser{}, "", apperr.Conflict(msgInvalidCredentials)
	}
	if !helpers.VerifyPassword(password.String(), user.Password.String()) {
		return domain.AppUser{}, "", apperr.Conflict(msgInvalidCredentials)
	}

	sessionID, err := s.sessions.Open(ctx, user.ID, s.cfg.SessionTTL)
	if err != nil {
		return domain.AppUser{}, "", apperr.Internal(err)
	}
	return user.AppUser(), sessionID, nil
}

// ForgotPassword issues a reset token for eligible accounts. Ineligible or
// unknown emails succeed silently with no side effects, so the response
// never reveals whether an account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email domain.EmailAddress) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil || !user.CanAuthenticate() {
		return nil
	}

	return s.issueAndSend(ctx, PurposeResetPassword, user.ID, email,
		s.cfg.ResetPasswordTTL, s.mailer.SendResetPasswordEmail)
}

// ResetPassword redeems the reset token and replaces the stored hash via a
// merge-patch, leaving every other field untouched.
func (s *AuthService) ResetPassword(ctx context.Context, email domain.EmailAddress, token string, newPassword domain.Password) error {
	user, err := s.userByToken(ctx, PurposeResetPassword, email, token)
	if err != nil {
		return err
	}

	hashed, err := helpers.HashPassword(newPassword.String())
	if err != nil {
		return apperr.Internal(err)
	}
	hashedPassword, err := domain.ParseHashedPassword(hashed)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.repo.Update(ctx, user.ID, domain.UpdateUser{Password: &hashedPassword}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SessionTTL exposes the configured session lifetime so the HTTP layer
// can align the cookie max-age with the Redis expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// Logout revokes the session; revoking an unknown session succeeds.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Close(ctx, sessionID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Authenticate resolves a session id to its user, extending the session
// TTL on the way. Banned and unverified accounts are rejected even when
// the session itself is live.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (domain.AppUser, error) {
	userID, err := s.sessions.Validate(ctx, sessionID, s.cfg.SessionTTL)
	if err != nil {
		return domain.AppUser{}, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.AppUser{}, apperr.Internal(err)
	}
	if user == nil || !user.CanAuthenticate() {
		return domain.AppUser{}, apperr.ErrUnauthorized
	}
	return user.AppUser(), nil
}

// issueAndSend stores a fresh token and dispatches the matching email.
// Both legs start together and both are awaited. If the send fails while
// the write succeeded, the token is deleted best-effort so no orphaned
// token outlives a failed operation; if the write fails, the operation
// fails regardless of the send result.
func (s *AuthService) issueAndSend(
	ctx context.Context,
	purpose TokenPurpose,
	userID domain.UserID,
	email domain.EmailAddress,
	ttl time.Duration,
	send func(ctx context.Context, to, token string) error,
) error {
	token, err := s.tokens.NewToken()
	if err != nil {
		return apperr.Internal(err)
	}

	storeDone := make(chan error, 1)
	go func() {
		storeDone <- s.tokens.Store(ctx, purpose, token, userID, ttl)
	}()
	sendErr := send(ctx, email.String(), token)
	storeErr := <-storeDone

	if storeErr != nil {
		if sendErr == nil {
			s.logger.WithFields(logrus.Fields{"purpose": purpose, "user_id": userID.String()}).
				Warn("email dispatched but token write failed")
		}
		return apperr.Internal(storeErr)
	}
	if sendErr != nil {
		if delErr := s.tokens.Discard(ctx, purpose, token); delErr != nil {
			s.logger.WithError(delErr).WithField("purpose", purpose).
				Warn("failed to roll back token after email failure")
		}
		return apperr.Internal(sendErr)
	}
	return nil
}

// userByToken redeems a token and resolves its user, enforcing the shared
// gating: the user exists, is not banned, matches the supplied email, and
// for reset tokens is verified. All failures collapse into the same
// Conflict so a caller cannot distinguish unknown from already-consumed.
func (s *AuthService) userByToken(ctx context.Context, purpose TokenPurpose, email domain.EmailAddress, token string) (*domain.User, error) {
	userID, ok, err := s.tokens.Redeem(ctx, purpose, token)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Conflict(msgInvalidToken)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil || user.IsBanned || user.Email != email {
		return nil, apperr.Conflict(msgInvalidToken)
	}
	if purpose == PurposeResetPassword && !user.IsVerified {
		return nil, apperr.Conflict(msgInvalidToken)
	}
	return user, nil
}
