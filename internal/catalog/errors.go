package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLoad          = errors.New("load catalog")
	ErrValidation    = errors.New("invalid product")
	ErrDuplicateCode = errors.New("product code already exists")
	ErrNotFound      = errors.New("product not found")
	ErrPersist       = errors.New("persist catalog")
)

// ValidationError lists the JSON names of the fields that failed validation.
// Fields are missing or falsy; Unknown are fields the input may not carry.
type ValidationError struct {
	Fields  []string
	Unknown []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Fields) > 0 {
		parts = append(parts, "missing or empty "+strings.Join(e.Fields, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "field not allowed: "+strings.Join(e.Unknown, ", "))
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrDuplicateCode):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPersist):
		return "persist_error"
	default:
		return "error"
	}
}
