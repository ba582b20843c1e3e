package validate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnum(t *testing.T) {
	valid := []string{"ET", "OU"}

	require.NoError(t, Enum("operateur", "ET", valid))

	err := Enum("operateur", "XOR", valid)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	var enumErr *InvalidEnumError
	require.True(t, errors.As(err, &enumErr))
	assert.Equal(t, "operateur", enumErr.Param)
	assert.Equal(t, "XOR", enumErr.Value)
	assert.Contains(t, err.Error(), "operateur")
	assert.Contains(t, err.Error(), "ET, OU")
}

func TestRequired(t *testing.T) {
	require.NoError(t, Required("id", "LEGIARTI000006419320"))

	err := Required("id", "   ")
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Equal(t, "id is required", err.Error())
}

func TestRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"inside", 10, 1, 100, false},
		{"lower bound", 1, 1, 100, false},
		{"upper bound", 100, 1, 100, false},
		{"above", 500, 1, 100, true},
		{"below", 0, 1, 100, true},
		{"unbounded", 5000, 0, 0, false},
		{"negative unbounded", -1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Range("page_size", tt.value, tt.min, tt.max)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValueOutOfRange)
				assert.Contains(t, err.Error(), "page_size")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("building request: %w", &MissingFieldError{Param: "fond", Reason: "call SetFund first"})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "call SetFund first")

	conflict := &ConflictError{Params: []string{"key", "value"}}
	assert.ErrorIs(t, conflict, ErrConflictingFields)
	assert.Equal(t, "parameters key and value are mutually exclusive", conflict.Error())
}
