package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks out-of-range noise parameters.
	ErrConfiguration = errors.New("invalid noise configuration")
	// ErrData marks a request whose process or true lines are malformed.
	ErrData = errors.New("invalid transaction data")
	// ErrStore marks a persistence failure while writing an entry.
	ErrStore = errors.New("ledger store failure")
)

// ValidationError reports which request field was rejected.
// Kind is ErrConfiguration or ErrData.
type ValidationError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func configError(field, reason string) error {
	return &ValidationError{Kind: ErrConfiguration, Field: field, Reason: reason}
}

func dataError(field, reason string) error {
	return &ValidationError{Kind: ErrData, Field: field, Reason: reason}
}
