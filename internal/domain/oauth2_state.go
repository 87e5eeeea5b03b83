package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

const (
	oauth2StateDelimiter = "|"
	OAuth2StateMaxLength = 100
)

// OAuth2State binds the redirect-out and redirect-back legs of the OAuth2
// dance: a random correlation id plus an optional post-login redirect path,
// encoded on the wire as "<uuid>" or "<uuid>|<path>". An absent path and an
// empty one are distinct states: "<uuid>|" round-trips with its trailing
// delimiter. Two states are equal only when both components match.
type OAuth2State struct {
	id      uuid.UUID
	path    string
	hasPath bool
}

func NewOAuth2State(redirectPath string) OAuth2State {
	return OAuth2State{id: uuid.New(), path: redirectPath, hasPath: redirectPath != ""}
}

func ParseOAuth2State(value string) (OAuth2State, error) {
	value = stripWhitespace(value)

	var violations []string
	if value == "" {
		violations = append(violations, "cannot be empty")
	}
	if len([]rune(value)) > OAuth2StateMaxLength {
		violations = append(violations, fmt.Sprintf("must be at most %d characters", OAuth2StateMaxLength))
	}

	idPart := value
	path := ""
	hasPath := false
	if i := strings.Index(value, oauth2StateDelimiter); i >= 0 {
		idPart = value[:i]
		path = value[i+len(oauth2StateDelimiter):]
		hasPath = true
	}

	id, err := uuid.Parse(idPart)
	if err != nil && value != "" {
		violations = append(violations, "invalid state")
	}

	if len(violations) > 0 {
		return OAuth2State{}, apperr.Field(violations...)
	}
	return OAuth2State{id: id, path: path, hasPath: hasPath}, nil
}

// RedirectPath returns the embedded post-login path, if any. The path is
// carried verbatim; this layer never percent-decodes it.
func (s OAuth2State) RedirectPath() string { return s.path }

func (s OAuth2State) Equal(other OAuth2State) bool {
	return s.id == other.id && s.hasPath == other.hasPath && s.path == other.path
}

func (s OAuth2State) String() string {
	if !s.hasPath {
		return s.id.String()
	}
	return s.id.String() + oauth2StateDelimiter + s.path
}
