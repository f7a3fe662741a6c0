package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDatabaseError_AlwaysInternal(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		wantIs error
	}{
		{"duplicate key", errors.New(`ERROR: duplicate key value violates unique constraint "projects_pkey"`), ErrDatabaseQuery},
		{"sqlite unique", errors.New("UNIQUE constraint failed: Projects.id"), ErrDatabaseQuery},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), ErrDatabaseConnection},
		{"bad connection", errors.New("driver: bad connection"), ErrDatabaseConnection},
		{"closed", errors.New("sql: database is closed"), ErrDatabaseConnection},
		{"generic", errors.New("no such table: Projects"), ErrDatabaseQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "project", tt.cause)
			assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Same(t, tt.cause, err.Cause)
			assert.Contains(t, err.GetFullError(), tt.cause.Error())
		})
	}
}

func TestNewDatabaseUnavailableError(t *testing.T) {
	err := NewDatabaseUnavailableError(errors.New("sql: database is closed"))
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.ErrorIs(t, err, ErrDatabaseConnection)
}

func TestNewDatabaseError_PassesThroughApiErr(t *testing.T) {
	notFound := NewNotFound("project")
	wrapped := fmt.Errorf("lookup: %w", notFound)

	assert.Same(t, notFound, NewDatabaseError("update", "project", notFound))
	assert.Same(t, notFound, NewDatabaseError("update", "project", wrapped))
}

func TestApiErr_Checkers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("project")))
	assert.True(t, IsMissingRequiredFieldError(NewMissingRequiredFieldError("title")))
	assert.False(t, IsNotFound(NewMissingRequiredFieldError("title")))
	assert.True(t, IsUnsupportedDatabaseError(NewUnsupportedDatabaseError("oracle")))

	assert.True(t, IsConfigError(NewConfigError("PORT", errors.New("bad"))))
	assert.False(t, IsConfigError(NewEnvironmentVariableError("DB_HOST")))
	assert.True(t, IsEnvironmentVariableError(NewEnvironmentVariableError("DB_HOST")))
}

func TestApiErr_Messages(t *testing.T) {
	err := NewMissingRequiredFieldError("title")
	assert.Equal(t, "missing required field: Missing required field: title", err.Error())
	assert.Equal(t, "title", err.Field)

	inner := NewInternalErrorWithCause("inner", errors.New("root"))
	outer := NewInternalErrorWithCause("outer", inner)
	assert.Equal(t, "outer -> inner -> root", outer.GetFullError())
}
