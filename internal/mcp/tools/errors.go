package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/piste"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeUpstreamError = "UPSTREAM_ERROR"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeTimeout       = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapError converts a validation, PISTE or transport error to a coded error.
// Coded errors pass through unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var (
		apiErr      *piste.APIError
		contractErr *legifrance.ContractError
		netErr      net.Error
	)
	switch {
	case isValidationError(err):
		// The message already names the parameter and the accepted values.
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: err.Error()}
	case errors.As(err, &contractErr):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: contractErr.Error()}
	case errors.As(err, &apiErr):
		code := ErrCodeUpstreamError
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			code = ErrCodeNotFound
		case http.StatusForbidden:
			code = ErrCodeForbidden
		}
		msg := apiErr.Message
		if apiErr.Hint != "" {
			msg += " (" + apiErr.Hint + ")"
		}
		coded = &CodedError{Code: code, Message: msg, Cause: err}
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		coded = &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeUpstreamError, Message: err.Error(), Cause: err}
	}

	slog.Warn("tool call failed",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

func isValidationError(err error) bool {
	return errors.Is(err, validate.ErrInvalidEnumValue) ||
		errors.Is(err, validate.ErrMissingRequiredField) ||
		errors.Is(err, validate.ErrValueOutOfRange) ||
		errors.Is(err, validate.ErrConflictingFields)
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
