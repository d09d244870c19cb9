package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("post", 4), http.StatusNotFound},
		{"access denied", fmt.Errorf("schedule 3: %w", ErrAccessDenied), http.StatusForbidden},
		{"already published", ErrAlreadyPublished, http.StatusConflict},
		{"completed schedule", ErrImmutableCompletedSchedule, http.StatusConflict},
		{"past time", ErrPastScheduleTime, http.StatusBadRequest},
		{"invalid input", Invalid("limit must be positive"), http.StatusBadRequest},
		{"timeout", fmt.Errorf("%w: %w", ErrPublishTimeout, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"adapter", &AdapterError{Platform: "tiktok", Err: errors.New("boom")}, http.StatusBadGateway},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestAdapterErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("publish post 9: %w", &AdapterError{Platform: "instagram", Err: ErrPlatformInactive})

	var adapterErr *AdapterError
	assert.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, "instagram", adapterErr.Platform)
	assert.ErrorIs(t, err, ErrPlatformInactive)
	assert.Contains(t, err.Error(), "instagram adapter")
}
