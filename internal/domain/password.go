package domain

import "github.com/oksasatya/go-identity-service/internal/apperr"

const (
	PasswordMinLength = 8
	PasswordMaxLength = 40

	hashedPasswordMinLength = 40
	hashedPasswordMaxLength = 100
)

// Password is a plaintext password that passed validation. It is never
// persisted; only its argon2id hash reaches the repository.
type Password struct {
	value string
}

func ParsePassword(value string) (Password, error) {
	value = stripWhitespace(value)
	if violations := checkLength(value, PasswordMinLength, PasswordMaxLength); len(violations) > 0 {
		return Password{}, apperr.Field(violations...)
	}
	return Password{value: value}, nil
}

func (p Password) String() string { return p.value }

// HashedPassword is an opaque hash in PHC string format. The length bounds
// reject anything that is obviously not a hash, so a plaintext password can
// never slip into a hash column.
type HashedPassword struct {
	value string
}

func ParseHashedPassword(value string) (HashedPassword, error) {
	value = stripWhitespace(value)
	if violations := checkLength(value, hashedPasswordMinLength, hashedPasswordMaxLength); len(violations) > 0 {
		return HashedPassword{}, apperr.Field(violations...)
	}
	return HashedPassword{value: value}, nil
}

func (p HashedPassword) String() string { return p.value }

func (p HashedPassword) IsZero() bool { return p.value == "" }
