package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

// TokenPurpose namespaces the single-use tokens so the same random token
// space cannot collide across purposes.
type TokenPurpose string

const (
	PurposeVerification  TokenPurpose = "verification"
	PurposeResetPassword TokenPurpose = "reset_password"
)

const tokenLength = 42

func (p TokenPurpose) key(token string) string { return string(p) + ":" + token }

// TokenManager issues and redeems single-use, fixed-TTL tokens bound to a
// user. Redemption is a single atomic get-and-delete, so a token can be
// consumed at most once even under concurrent redemption attempts.
type TokenManager struct {
	cache Cache
}

func NewTokenManager(cache Cache) *TokenManager {
	return &TokenManager{cache: cache}
}

// NewToken generates a fresh high-entropy token without storing it.
func (m *TokenManager) NewToken() (string, error) {
	return helpers.SecureRandomString(tokenLength)
}

// Store records token -> userID under the purpose prefix with the given TTL.
func (m *TokenManager) Store(ctx context.Context, purpose TokenPurpose, token string, userID domain.UserID, ttl time.Duration) error {
	return m.cache.SetWithTTL(ctx, purpose.key(token), userID.String(), ttl)
}

// Issue generates a token and stores it in one step.
func (m *TokenManager) Issue(ctx context.Context, purpose TokenPurpose, userID domain.UserID, ttl time.Duration) (string, error) {
	token, err := m.NewToken()
	if err != nil {
		return "", err
	}
	if err := m.Store(ctx, purpose, token, userID, ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Discard removes a stored token without redeeming it. Used to roll back
// an issued token when the paired email dispatch fails.
func (m *TokenManager) Discard(ctx context.Context, purpose TokenPurpose, token string) error {
	return m.cache.Delete(ctx, purpose.key(token))
}

// Redeem consumes the token. The second return is false when the token is
// unknown, expired, already used, or maps to a malformed user id; callers
// deliberately cannot tell those cases apart.
func (m *TokenManager) Redeem(ctx context.Context, purpose TokenPurpose, token string) (domain.UserID, bool, error) {
	value, ok, err := m.cache.GetAndDelete(ctx, purpose.key(token))
	if err != nil {
		return domain.UserID{}, false, err
	}
	if !ok {
		return domain.UserID{}, false, nil
	}
	userID, err := domain.ParseUserID(value)
	if err != nil {
		return domain.UserID{}, false, nil
	}
	return userID, true, nil
}
