package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  NewAppError(ErrTypeConfig, "bad config", nil),
			want: "[CONFIG] bad config",
		},
		{
			name: "with cause",
			err:  NewAppError(ErrTypeWriteFailure, "report write failed", errors.New("disk full")),
			want: "[WRITE_FAILURE] report write failed: disk full",
		},
		{
			name: "with stage",
			err:  NewSchemaMismatchError("missing column Price", nil).WithStage("load"),
			want: "[SCHEMA_MISMATCH] load: missing column Price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := NewSourceNotFoundError("dataset/sales_data.csv", cause)

	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeSourceNotFound, appErr.Type)
}

func TestIsType(t *testing.T) {
	err := NewColumnConflictError("Total_Sales_Value")

	assert.True(t, IsType(err, ErrTypeColumnConflict))
	assert.False(t, IsType(err, ErrTypeWriteFailure))
	assert.False(t, IsType(errors.New("plain"), ErrTypeColumnConflict))

	// wrapped AppError is still recognized
	wrapped := errors.Join(errors.New("outer"), err)
	assert.True(t, IsType(wrapped, ErrTypeColumnConflict))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewWriteFailureError("csv write failed", nil).
		WithContext("path", "output/updated_dataset.csv").
		WithContext("rows", 120)

	assert.Equal(t, "output/updated_dataset.csv", err.Context["path"])
	assert.Equal(t, 120, err.Context["rows"])
}
