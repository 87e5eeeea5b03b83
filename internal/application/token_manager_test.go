package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/domain"
)

func TestTokenManagerIssueRedeem(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	tm := NewTokenManager(cache)
	userID := domain.UserIDFromUUID(uuid.New())

	token, err := tm.Issue(ctx, PurposeVerification, userID, time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, tokenLength)

	got, ok, err := tm.Redeem(ctx, PurposeVerification, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestTokenManagerSingleUse(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager(newMemoryCache())
	userID := domain.UserIDFromUUID(uuid.New())

	token, err := tm.Issue(ctx, PurposeVerification, userID, time.Hour)
	require.NoError(t, err)

	_, ok, err := tm.Redeem(ctx, PurposeVerification, token)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = tm.Redeem(ctx, PurposeVerification, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenManagerConcurrentRedemption(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager(newMemoryCache())
	userID := domain.UserIDFromUUID(uuid.New())

	token, err := tm.Issue(ctx, PurposeResetPassword, userID, time.Hour)
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := tm.Redeem(ctx, PurposeResetPassword, token)
			require.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestTokenManagerPurposeIsolation(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager(newMemoryCache())
	userID := domain.UserIDFromUUID(uuid.New())

	token, err := tm.Issue(ctx, PurposeVerification, userID, time.Hour)
	require.NoError(t, err)

	// a reset redemption must not see a verification token
	_, ok, err := tm.Redeem(ctx, PurposeResetPassword, token)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = tm.Redeem(ctx, PurposeVerification, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenManagerExpiry(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	tm := NewTokenManager(cache)
	userID := domain.UserIDFromUUID(uuid.New())

	token, err := tm.Issue(ctx, PurposeVerification, userID, time.Hour)
	require.NoError(t, err)

	cache.expire(PurposeVerification.key(token))

	_, ok, err := tm.Redeem(ctx, PurposeVerification, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenManagerDiscard(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	tm := NewTokenManager(cache)
	userID := domain.UserIDFromUUID(uuid.New())

	token, err := tm.Issue(ctx, PurposeVerification, userID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, tm.Discard(ctx, PurposeVerification, token))

	_, ok, err := tm.Redeem(ctx, PurposeVerification, token)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.len())
}
