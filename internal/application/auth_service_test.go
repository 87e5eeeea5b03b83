package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/apperr"
	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

const testPassword = "password123"

func newTestService(repo *MockUserRepository, mail *MockMailer, cache Cache) *AuthService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewAuthService(repo, cache, mail, logger, Config{
		SessionTTL:       30 * time.Minute,
		VerificationTTL:  24 * time.Hour,
		ResetPasswordTTL: 30 * time.Minute,
	}, OAuth2Config{}, nil)
}

func testUser(t *testing.T, email string) *domain.User {
	t.Helper()
	parsedEmail, err := domain.ParseEmail(email)
	require.NoError(t, err)
	hash, err := helpers.HashPassword(testPassword)
	require.NoError(t, err)
	hashed, err := domain.ParseHashedPassword(hash)
	require.NoError(t, err)
	return &domain.User{
		ID:         domain.UserIDFromUUID(uuid.New()),
		Email:      parsedEmail,
		Password:   hashed,
		Role:       domain.RoleRegular,
		IsVerified: true,
	}
}

func mustEmail(t *testing.T, v string) domain.EmailAddress {
	t.Helper()
	email, err := domain.ParseEmail(v)
	require.NoError(t, err)
	return email
}

func mustPassword(t *testing.T, v string) domain.Password {
	t.Helper()
	password, err := domain.ParsePassword(v)
	require.NoError(t, err)
	return password
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and issues a redeemable token", func(t *testing.T) {
		cache := newMemoryCache()
		userID := domain.UserIDFromUUID(uuid.New())

		var created domain.NewUser
		repo := &MockUserRepository{
			CreateFunc: func(_ context.Context, user domain.NewUser) (domain.UserID, error) {
				created = user
				return userID, nil
			},
		}
		var sentTo, sentToken string
		mail := &MockMailer{
			SendVerificationEmailFunc: func(_ context.Context, to, token string) error {
				sentTo, sentToken = to, token
				return nil
			},
		}
		svc := newTestService(repo, mail, cache)

		in := SignUpInput{
			Email:     mustEmail(t, "alice@example.com"),
			Password:  mustPassword(t, testPassword),
			FirstName: mustName(t, "Alice"),
		}
		require.NoError(t, svc.SignUp(ctx, in))

		assert.Equal(t, "alice@example.com", created.Email.String())
		assert.True(t, helpers.VerifyPassword(testPassword, created.Password.String()))
		assert.False(t, created.IsVerified)

		require.Equal(t, "alice@example.com", sentTo)
		got, ok, err := svc.tokens.Redeem(ctx, PurposeVerification, sentToken)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, userID, got)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo := &MockUserRepository{
			CreateFunc: func(context.Context, domain.NewUser) (domain.UserID, error) {
				return domain.UserID{}, repository.ErrEmailTaken
			},
		}
		svc := newTestService(repo, &MockMailer{}, newMemoryCache())

		err := svc.SignUp(ctx, SignUpInput{
			Email:    mustEmail(t, "alice@example.com"),
			Password: mustPassword(t, testPassword),
		})
		require.True(t, apperr.IsConflict(err))
		assert.Equal(t, "An account with this email already exists", err.Error())
	})

	t.Run("failed email send rolls the token back", func(t *testing.T) {
		cache := newMemoryCache()
		repo := &MockUserRepository{}
		mail := &MockMailer{
			SendVerificationEmailFunc: func(context.Context, string, string) error {
				return errors.New("smtp down")
			},
		}
		svc := newTestService(repo, mail, cache)

		err := svc.SignUp(ctx, SignUpInput{
			Email:    mustEmail(t, "alice@example.com"),
			Password: mustPassword(t, testPassword),
		})
		require.Error(t, err)
		var ie *apperr.InternalError
		assert.True(t, errors.As(err, &ie))
		assert.Equal(t, 0, cache.len(), "no orphaned token after a failed send")
	})
}

func TestVerifyAccount(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, *domain.User, string, **domain.UpdateUser) {
		cache := newMemoryCache()
		user := testUser(t, "alice@example.com")
		user.IsVerified = false

		var captured *domain.UpdateUser
		repo := &MockUserRepository{
			GetByIDFunc: func(_ context.Context, id domain.UserID) (*domain.User, error) {
				if id == user.ID {
					return user, nil
				}
				return nil, nil
			},
			UpdateFunc: func(_ context.Context, _ domain.UserID, patch domain.UpdateUser) error {
				captured = &patch
				return nil
			},
		}
		svc := newTestService(repo, &MockMailer{}, cache)

		token, err := svc.tokens.Issue(ctx, PurposeVerification, user.ID, time.Hour)
		require.NoError(t, err)
		return svc, user, token, &captured
	}

	t.Run("marks the account verified", func(t *testing.T) {
		svc, user, token, captured := setup(t)

		require.NoError(t, svc.VerifyAccount(ctx, user.Email, token))
		require.NotNil(t, *captured)
		require.NotNil(t, (*captured).IsVerified)
		assert.True(t, *(*captured).IsVerified)
	})

	t.Run("token is single use", func(t *testing.T) {
		svc, user, token, _ := setup(t)

		require.NoError(t, svc.VerifyAccount(ctx, user.Email, token))
		err := svc.VerifyAccount(ctx, user.Email, token)
		require.True(t, apperr.IsConflict(err))
		assert.Equal(t, "Invalid token", err.Error())
	})

	t.Run("email mismatch consumes the token and fails", func(t *testing.T) {
		svc, user, token, _ := setup(t)

		err := svc.VerifyAccount(ctx, mustEmail(t, "mallory@example.com"), token)
		require.True(t, apperr.IsConflict(err))

		// the token is gone even for the right email
		err = svc.VerifyAccount(ctx, user.Email, token)
		require.True(t, apperr.IsConflict(err))
	})

	t.Run("banned user cannot verify", func(t *testing.T) {
		svc, user, token, captured := setup(t)
		user.IsBanned = true

		err := svc.VerifyAccount(ctx, user.Email, token)
		require.True(t, apperr.IsConflict(err))
		assert.Nil(t, *captured)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, user, _, _ := setup(t)
		err := svc.VerifyAccount(ctx, user.Email, "no-such-token")
		require.True(t, apperr.IsConflict(err))
		assert.Equal(t, "Invalid token", err.Error())
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	newService := func(user *domain.User) *AuthService {
		repo := &MockUserRepository{
			GetByEmailFunc: func(_ context.Context, email domain.EmailAddress) (*domain.User, error) {
				if user != nil && user.Email == email {
					return user, nil
				}
				return nil, nil
			},
			GetByIDFunc: func(_ context.Context, id domain.UserID) (*domain.User, error) {
				if user != nil && user.ID == id {
					return user, nil
				}
				return nil, nil
			},
		}
		return newTestService(repo, &MockMailer{}, newMemoryCache())
	}

	t.Run("success opens a session", func(t *testing.T) {
		user := testUser(t, "alice@example.com")
		svc := newService(user)

		appUser, sessionID, err := svc.SignIn(ctx, user.Email, mustPassword(t, testPassword))
		require.NoError(t, err)
		assert.Equal(t, user.ID, appUser.ID)
		require.NotEmpty(t, sessionID)

		got, err := svc.Authenticate(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("every failure mode reads the same", func(t *testing.T) {
		banned := testUser(t, "banned@example.com")
		banned.IsBanned = true
		unverified := testUser(t, "new@example.com")
		unverified.IsVerified = false
		federated := testUser(t, "google@example.com")
		federated.Password = domain.HashedPassword{}

		cases := []struct {
			name     string
			user     *domain.User
			email    string
			password string
		}{
			{"unknown email", nil, "ghost@example.com", testPassword},
			{"banned account", banned, "banned@example.com", testPassword},
			{"unverified account", unverified, "new@example.com", testPassword},
			{"federated-only account", federated, "google@example.com", testPassword},
			{"wrong password", testUser(t, "alice@example.com"), "alice@example.com", "wrong-password"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc := newService(tc.user)
				_, _, err := svc.SignIn(ctx, mustEmail(t, tc.email), mustPassword(t, tc.password))
				require.True(t, apperr.IsConflict(err))
				assert.Equal(t, "Invalid credentials", err.Error())
			})
		}
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible account gets a reset email", func(t *testing.T) {
		user := testUser(t, "alice@example.com")
		repo := &MockUserRepository{
			GetByEmailFunc: func(context.Context, domain.EmailAddress) (*domain.User, error) {
				return user, nil
			},
		}
		var sentToken string
		mail := &MockMailer{
			SendResetPasswordEmailFunc: func(_ context.Context, _, token string) error {
				sentToken = token
				return nil
			},
		}
		cache := newMemoryCache()
		svc := newTestService(repo, mail, cache)

		require.NoError(t, svc.ForgotPassword(ctx, user.Email))
		require.NotEmpty(t, sentToken)

		got, ok, err := svc.tokens.Redeem(ctx, PurposeResetPassword, sentToken)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, user.ID, got)
	})

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		sent := false
		mail := &MockMailer{
			SendResetPasswordEmailFunc: func(context.Context, string, string) error {
				sent = true
				return nil
			},
		}
		cache := newMemoryCache()
		svc := newTestService(&MockUserRepository{}, mail, cache)

		require.NoError(t, svc.ForgotPassword(ctx, mustEmail(t, "ghost@example.com")))
		assert.False(t, sent)
		assert.Equal(t, 0, cache.len())
	})

	t.Run("ineligible account succeeds silently", func(t *testing.T) {
		user := testUser(t, "banned@example.com")
		user.IsBanned = true
		repo := &MockUserRepository{
			GetByEmailFunc: func(context.Context, domain.EmailAddress) (*domain.User, error) {
				return user, nil
			},
		}
		sent := false
		mail := &MockMailer{
			SendResetPasswordEmailFunc: func(context.Context, string, string) error {
				sent = true
				return nil
			},
		}
		svc := newTestService(repo, mail, newMemoryCache())

		require.NoError(t, svc.ForgotPassword(ctx, user.Email))
		assert.False(t, sent)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, user *domain.User) (*AuthService, string, **domain.UpdateUser) {
		var captured *domain.UpdateUser
		repo := &MockUserRepository{
			GetByIDFunc: func(_ context.Context, id domain.UserID) (*domain.User, error) {
				if user != nil && user.ID == id {
					return user, nil
				}
				return nil, nil
			},
			UpdateFunc: func(_ context.Context, _ domain.UserID, patch domain.UpdateUser) error {
				captured = &patch
				return nil
			},
		}
		svc := newTestService(repo, &MockMailer{}, newMemoryCache())
		token, err := svc.tokens.Issue(ctx, PurposeResetPassword, user.ID, time.Hour)
		require.NoError(t, err)
		return svc, token, &captured
	}

	t.Run("replaces only the password", func(t *testing.T) {
		user := testUser(t, "alice@example.com")
		svc, token, captured := setup(t, user)

		require.NoError(t, svc.ResetPassword(ctx, user.Email, token, mustPassword(t, "brand-new-pass")))
		require.NotNil(t, *captured)
		patch := *(*captured)
		require.NotNil(t, patch.Password)
		assert.True(t, helpers.VerifyPassword("brand-new-pass", patch.Password.String()))
		assert.Nil(t, patch.IsVerified)
		assert.Nil(t, patch.FirstName)
	})

	t.Run("unverified user cannot reset", func(t *testing.T) {
		user := testUser(t, "new@example.com")
		user.IsVerified = false
		svc, token, captured := setup(t, user)

		err := svc.ResetPassword(ctx, user.Email, token, mustPassword(t, "brand-new-pass"))
		require.True(t, apperr.IsConflict(err))
		assert.Equal(t, "Invalid token", err.Error())
		assert.Nil(t, *captured)
	})

	t.Run("token cannot be replayed", func(t *testing.T) {
		user := testUser(t, "alice@example.com")
		svc, token, _ := setup(t, user)

		require.NoError(t, svc.ResetPassword(ctx, user.Email, token, mustPassword(t, "brand-new-pass")))
		err := svc.ResetPassword(ctx, user.Email, token, mustPassword(t, "another-pass"))
		require.True(t, apperr.IsConflict(err))
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("live session for a banned user is rejected", func(t *testing.T) {
		user := testUser(t, "alice@example.com")
		repo := &MockUserRepository{
			GetByIDFunc: func(context.Context, domain.UserID) (*domain.User, error) {
				return user, nil
			},
		}
		svc := newTestService(repo, &MockMailer{}, newMemoryCache())

		sessionID, err := svc.sessions.Open(ctx, user.ID, time.Hour)
		require.NoError(t, err)

		user.IsBanned = true
		_, err = svc.Authenticate(ctx, sessionID)
		assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := newTestService(&MockUserRepository{}, &MockMailer{}, newMemoryCache())
		_, err := svc.Authenticate(ctx, uuid.NewString())
		assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, "alice@example.com")
	repo := &MockUserRepository{
		GetByIDFunc: func(context.Context, domain.UserID) (*domain.User, error) {
			return user, nil
		},
	}
	svc := newTestService(repo, &MockMailer{}, newMemoryCache())

	sessionID, err := svc.sessions.Open(ctx, user.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sessionID))
	_, err = svc.Authenticate(ctx, sessionID)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	// logging out twice is fine
	assert.NoError(t, svc.Logout(ctx, sessionID))
}

func mustName(t *testing.T, v string) domain.FirstName {
	t.Helper()
	name, err := domain.ParseFirstName(v)
	require.NoError(t, err)
	return name
}
