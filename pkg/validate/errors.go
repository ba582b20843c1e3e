// Package validate holds the parameter validation errors shared by the
// Légifrance and JudiLibre packages.
package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinels matched with errors.Is.
var (
	ErrInvalidEnumValue     = errors.New("invalid enum value")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrValueOutOfRange      = errors.New("value out of range")
	ErrConflictingFields    = errors.New("conflicting fields")
)

// InvalidEnumError reports a value outside a closed set.
type InvalidEnumError struct {
	Param string
	Value string
	Valid []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: must be one of %s", e.Value, e.Param, strings.Join(e.Valid, ", "))
}

func (e *InvalidEnumError) Unwrap() error { return ErrInvalidEnumValue }

// MissingFieldError reports a required parameter that was not provided.
type MissingFieldError struct {
	Param  string
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s is required: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Param)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// RangeError reports a numeric parameter outside [Min, Max].
// Max <= 0 means unbounded above.
type RangeError struct {
	Param string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	if e.Max <= 0 {
		return fmt.Sprintf("%s must be >= %d, got %d", e.Param, e.Min, e.Value)
	}
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Param, e.Min, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrValueOutOfRange }

// ConflictError reports two parameters that cannot be used together.
type ConflictError struct {
	Params []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("parameters %s are mutually exclusive", strings.Join(e.Params, " and "))
}

func (e *ConflictError) Unwrap() error { return ErrConflictingFields }

// Enum checks that value belongs to valid.
func Enum(param, value string, valid []string) error {
	if slices.Contains(valid, value) {
		return nil
	}
	return &InvalidEnumError{Param: param, Value: value, Valid: valid}
}

// Required checks that value is non-empty.
func Required(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return &MissingFieldError{Param: param}
	}
	return nil
}

// Range checks min <= value <= max. A non-positive max disables the upper bound.
func Range(param string, value, min, max int) error {
	if value < min || (max > 0 && value > max) {
		return &RangeError{Param: param, Value: value, Min: min, Max: max}
	}
	return nil
}
