package domain

import (
	"errors"

	"github.com/oksasatya/go-identity-service/internal/apperr"
)

// Aggregator batches field validation across a whole request. Every field
// is attempted; plain field errors accumulate by name, while the first
// non-validation error is remembered and takes precedence when the caller
// finally asks for the result.
type Aggregator struct {
	fields map[string][]string
	fatal  error
}

func NewAggregator() *Aggregator {
	return &Aggregator{fields: make(map[string][]string)}
}

func (a *Aggregator) Add(field string, err error) {
	if err == nil {
		return
	}
	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		a.fields[field] = append(a.fields[field], fe.Violations...)
		return
	}
	if a.fatal == nil {
		a.fatal = err
	}
}

// Err returns the earliest fatal error if one occurred, otherwise the
// combined ValidationError, otherwise nil.
func (a *Aggregator) Err() error {
	if a.fatal != nil {
		return a.fatal
	}
	if len(a.fields) > 0 {
		return apperr.Validation(a.fields)
	}
	return nil
}
