package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-identity-service/internal/apperr"
	"github.com/oksasatya/go-identity-service/internal/domain"
)

const sessionKeyPrefix = "session:"

func sessionKey(sessionID string) string { return sessionKeyPrefix + sessionID }

// SessionStore maps opaque session ids to user ids in the cache with a
// sliding expiration: every successful validation extends the TTL.
type SessionStore struct {
	cache Cache
}

func NewSessionStore(cache Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Open issues a fresh session id for the user with the given TTL.
func (s *SessionStore) Open(ctx context.Context, userID domain.UserID, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()
	if err := s.cache.SetWithTTL(ctx, sessionKey(sessionID), userID.String(), ttl); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Validate resolves the session and extends its TTL in one atomic round
// trip. An absent or malformed session is ErrUnauthorized.
func (s *SessionStore) Validate(ctx context.Context, sessionID string, ttl time.Duration) (domain.UserID, error) {
	value, ok, err := s.cache.GetAndExtendTTL(ctx, sessionKey(sessionID), ttl)
	if err != nil {
		return domain.UserID{}, apperr.Internal(err)
	}
	if !ok {
		return domain.UserID{}, apperr.ErrUnauthorized
	}
	userID, err := domain.ParseUserID(value)
	if err != nil {
		return domain.UserID{}, apperr.ErrUnauthorized
	}
	return userID, nil
}

// Close revokes the session. Closing an unknown session is a no-op.
func (s *SessionStore) Close(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKey(sessionID))
}
