package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeConflict, "already applied")
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("apply: %w", New(CodeForbidden, "nope"))
		assert.True(t, HasCode(err, CodeForbidden))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to load job")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load job: connection reset", err.Error())
	assert.Equal(t, "failed to load job", err.Message)
}

func TestNewValidationCarriesFields(t *testing.T) {
	err := NewValidation("invalid job", FieldError{Field: "title", Message: "title is required"})

	assert.Equal(t, CodeValidation, err.Code)
	require.Len(t, err.Fields, 1)
	assert.Equal(t, "title", err.Fields[0].Field)
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeInvalidState: http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}

func TestFieldErrors(t *testing.T) {
	var fe FieldErrors
	require.NoError(t, fe.Err("invalid"))

	fe.Add("email", "email is invalid")
	fe.Add("password", "password is too short")
	err := fe.Err("invalid registration")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeValidation))
	de, _ := As(err)
	assert.Len(t, de.Fields, 2)
}
