package domain

import "github.com/oksasatya/go-identity-service/internal/apperr"

const (
	providerIDMaxLength = 50
	oauth2CodeMaxLength = 100
)

// GoogleID is the subject identifier Google reports for a federated user.
type GoogleID struct {
	value string
}

func ParseGoogleID(value string) (GoogleID, error) {
	value = stripWhitespace(value)
	if violations := checkLength(value, 0, providerIDMaxLength); len(violations) > 0 {
		return GoogleID{}, apperr.Field(violations...)
	}
	return GoogleID{value: value}, nil
}

func (id GoogleID) String() string { return id.value }

func (id GoogleID) IsZero() bool { return id.value == "" }

// FacebookID mirrors GoogleID for the Facebook provider variant.
type FacebookID struct {
	value string
}

func ParseFacebookID(value string) (FacebookID, error) {
	value = stripWhitespace(value)
	if violations := checkLength(value, 0, providerIDMaxLength); len(violations) > 0 {
		return FacebookID{}, apperr.Field(violations...)
	}
	return FacebookID{value: value}, nil
}

func (id FacebookID) String() string { return id.value }

func (id FacebookID) IsZero() bool { return id.value == "" }

// OAuth2Code is the authorization code a provider sends to the callback.
type OAuth2Code struct {
	value string
}

func ParseOAuth2Code(value string) (OAuth2Code, error) {
	value = stripWhitespace(value)
	if violations := checkLength(value, 0, oauth2CodeMaxLength); len(violations) > 0 {
		return OAuth2Code{}, apperr.Field(violations...)
	}
	return OAuth2Code{value: value}, nil
}

func (c OAuth2Code) String() string { return c.value }
