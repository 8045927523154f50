package service

import "errors"

// ErrValidation reports an entity-level field constraint failure (missing or
// over-length name/description). The HTTP layer maps this to the status the
// API has always used for validation failures.
var ErrValidation = errors.New("service: validation failed")

// Field length bounds for entity names and descriptions.
const (
	MaxNameLength        = 80
	MaxDescriptionLength = 500
)

func validateNameDescription(name, description string) error {
	if name == "" || len(name) > MaxNameLength {
		return ErrValidation
	}
	if len(description) > MaxDescriptionLength {
		return ErrValidation
	}
	return nil
}
