package domain

import (
	"github.com/google/uuid"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

// UserID is the UUID-backed identity of a user aggregate.
type UserID struct {
	value uuid.UUID
}

func ParseUserID(value string) (UserID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return UserID{}, apperr.Field("invalid user id")
	}
	return UserID{value: id}, nil
}

func UserIDFromUUID(id uuid.UUID) UserID { return UserID{value: id} }

func (id UserID) UUID() uuid.UUID { return id.value }

func (id UserID) String() string { return id.value.String() }

func (id UserID) IsZero() bool { return id.value == uuid.Nil }
