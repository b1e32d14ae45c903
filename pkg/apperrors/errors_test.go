package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeInternal, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.code), "code %s", tc.code)
	}
}

func TestAsExtractsAppError(t *testing.T) {
	err := NotFound("video not found")

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, "video not found", appErr.Message)
}

func TestAsThroughWrapping(t *testing.T) {
	inner := AlreadyExists("email already registered")
	wrapped := fmt.Errorf("saving user: %w", inner)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyExists, appErr.Code)
}

func TestAsRejectsPlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeInternal, "query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "connection refused")
}

// Domain sentinels must carry the status the API promises for them.
func TestDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrEmailTaken, http.StatusBadRequest},
		{ErrUsernameTaken, http.StatusBadRequest},
		{ErrAlreadySubscribed, http.StatusBadRequest},
		{ErrChannelNameTaken, http.StatusBadRequest},
		{ErrAlreadyHasChannel, http.StatusBadRequest},
		{ErrChannelNameMissing, http.StatusBadRequest},
		{ErrVideoFieldsMissing, http.StatusBadRequest},
		{ErrMissingQuery, http.StatusBadRequest},
		{ErrMissingText, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusBadRequest},
		{ErrNotChannelOwner, http.StatusForbidden},
		{ErrNotVideoOwner, http.StatusForbidden},
		{ErrNotCommentAuthor, http.StatusForbidden},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrChannelNotFound, http.StatusNotFound},
		{ErrVideoNotFound, http.StatusNotFound},
		{ErrCommentNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		appErr, ok := As(tc.err)
		require.True(t, ok, "%v is not an AppError", tc.err)
		assert.Equal(t, tc.want, HTTPStatus(appErr.Code), "%v", tc.err)
	}
}
