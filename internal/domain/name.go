package domain

import (
	"fmt"
	"unicode"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

const NameMaxLength = 40

// FirstName and LastName accept alphabetic characters only, at most 40 of
// them once whitespace is stripped. All violations for a field are
// reported together.
type FirstName struct {
	value string
}

func ParseFirstName(value string) (FirstName, error) {
	parsed, err := parseName("First name", value)
	if err != nil {
		return FirstName{}, err
	}
	return FirstName{value: parsed}, nil
}

func (n FirstName) String() string { return n.value }

func (n FirstName) IsZero() bool { return n.value == "" }

type LastName struct {
	value string
}

func ParseLastName(value string) (LastName, error) {
	parsed, err := parseName("Last name", value)
	if err != nil {
		return LastName{}, err
	}
	return LastName{value: parsed}, nil
}

func (n LastName) String() string { return n.value }

func (n LastName) IsZero() bool { return n.value == "" }

func parseName(label, value string) (string, error) {
	value = stripWhitespace(value)

	var violations []string
	if value == "" {
		violations = append(violations, label+" cannot be empty")
	}
	for _, r := range value {
		if !unicode.IsLetter(r) {
			violations = append(violations, label+" must contain only alphabetic characters")
			break
		}
	}
	if n := len([]rune(value)); n > NameMaxLength {
		violations = append(violations, fmt.Sprintf("%s must be at most %d characters", label, NameMaxLength))
	}

	if len(violations) > 0 {
		return "", apperr.Field(violations...)
	}
	return value, nil
}
