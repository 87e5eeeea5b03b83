package application

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-identity-service/internal/domain"
)

// --- Mocks ---

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryCache is an in-memory Cache. Operations hold one lock, so the
// read-and-mutate calls are atomic exactly like their Redis counterparts.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *memoryCache) GetAndExtendTTL(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	entry.expiresAt = time.Now().Add(ttl)
	c.entries[key] = entry
	return entry.value, true, nil
}

func (c *memoryCache) GetAndDelete(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	delete(c.entries, key)
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) expiresAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry.expiresAt, ok
}

func (c *memoryCache) expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		entry.expiresAt = time.Now().Add(-time.Second)
		c.entries[key] = entry
	}
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type MockUserRepository struct {
	GetByEmailFunc func(ctx context.Context, email domain.EmailAddress) (*domain.User, error)
	GetByIDFunc    func(ctx context.Context, id domain.UserID) (*domain.User, error)
	CreateFunc     func(ctx context.Context, user domain.NewUser) (domain.UserID, error)
	UpdateFunc     func(ctx context.Context, id domain.UserID, patch domain.UpdateUser) error
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email domain.EmailAddress) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.NewUser) (domain.UserID, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return domain.UserIDFromUUID([16]byte{1}), nil
}

func (m *MockUserRepository) Update(ctx context.Context, id domain.UserID, patch domain.UpdateUser) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil
}

type MockMailer struct {
	SendVerificationEmailFunc  func(ctx context.Context, to, token string) error
	SendResetPasswordEmailFunc func(ctx context.Context, to, token string) error
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, to, token)
	}
	return nil
}

func (m *MockMailer) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	if m.SendResetPasswordEmailFunc != nil {
		return m.SendResetPasswordEmailFunc(ctx, to, token)
	}
	return nil
}
