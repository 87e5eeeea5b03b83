package domain

import (
	"strings"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

// Gender is a closed enum parsed case-insensitively.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

func ParseGender(value string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "female":
		return GenderFemale, nil
	case "male":
		return GenderMale, nil
	case "other":
		return GenderOther, nil
	default:
		return "", apperr.Field("must be male, female or other")
	}
}

func (g Gender) String() string { return string(g) }
