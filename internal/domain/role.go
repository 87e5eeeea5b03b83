package domain

import (
	"strings"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

// Role is the two-value authorization tag carried by every user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "admin":
		return RoleAdmin, nil
	case "regular":
		return RoleRegular, nil
	default:
		return "", apperr.Field("must be admin or regular")
	}
}

func (r Role) String() string { return string(r) }
