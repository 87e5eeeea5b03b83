package domain

import (
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

var emailValidator = validator.New()

// EmailAddress is a syntactically valid email address. Stored and compared
// case-sensitively.
type EmailAddress struct {
	value string
}

func ParseEmail(value string) (EmailAddress, error) {
	if err := emailValidator.Var(value, "required,email"); err != nil {
		return EmailAddress{}, apperr.Field("invalid email address")
	}
	return EmailAddress{value: value}, nil
}

func (e EmailAddress) String() string { return e.value }

func (e EmailAddress) IsZero() bool { return e.value == "" }
