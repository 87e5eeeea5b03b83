package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-identity-service/internal/domain"
)

// ErrEmailTaken is surfaced by Create when the email uniqueness constraint
// fires. The database constraint is the only mechanism resolving races
// between concurrent sign-ups; callers never pre-check existence.
var ErrEmailTaken = errors.New("email already taken")

// UserRepository defines the persistence contract the services consume.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email domain.EmailAddress) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	Create(ctx context.Context, u domain.NewUser) (domain.UserID, error)
	Update(ctx context.Context, id domain.UserID, patch domain.UpdateUser) error
}
