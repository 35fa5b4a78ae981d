package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCodeAndField(t *testing.T) {
	base := InvalidInput("std_dev", "standard deviation must be positive")
	wrapped := Wrap(base, "simulation rejected")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Equal(t, "std_dev", GetField(wrapped))
	assert.Equal(t, "simulation rejected: standard deviation must be positive", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainError(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))

	err := Wrapf(fmt.Errorf("boom"), "step %d failed", 3)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "step 3 failed: boom", err.Error())
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, "", GetField(fmt.Errorf("plain")))
}

func TestGetCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ValidationError("bad"))
	assert.Equal(t, CodeValidationError, GetCode(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{InvalidInput("alpha", "out of range"), http.StatusBadRequest},
		{ValidationError("bad body"), http.StatusBadRequest},
		{NotFound("page"), http.StatusNotFound},
		{InternalError("oops"), http.StatusInternalServerError},
		{ConfigInvalid("PORT"), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "err=%v", tt.err)
	}
}
