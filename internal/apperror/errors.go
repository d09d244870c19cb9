// Package apperror holds the error taxonomy shared by services, the lifecycle
// controller and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound                   = errors.New("not found")
	ErrAccessDenied               = errors.New("access denied")
	ErrAlreadyPublished           = errors.New("post is already published")
	ErrImmutablePublished         = errors.New("published posts cannot be modified")
	ErrImmutableCompletedSchedule = errors.New("completed schedules cannot be modified")
	ErrPastScheduleTime           = errors.New("scheduled time must be in the future")
	ErrInvalidRecurrence          = errors.New("invalid recurrence pattern")
	ErrPublishTimeout             = errors.New("publishing timed out")
	ErrInvalidTransition          = errors.New("invalid status transition")
	ErrInvalidInput               = errors.New("invalid input")
	ErrConflict                   = errors.New("conflict")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrRateLimited                = errors.New("rate limit exceeded")
	ErrPlatformInactive           = errors.New("platform is inactive")
	ErrUnsupportedPlatform        = errors.New("no publisher for platform type")
)

// AdapterError wraps a failure reported by a third-party platform.
type AdapterError struct {
	Platform string
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s adapter: %v", e.Platform, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error from any layer to the response status code.
func HTTPStatus(err error) int {
	var adapterErr *AdapterError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrPublishTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &adapterErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrAlreadyPublished),
		errors.Is(err, ErrImmutablePublished),
		errors.Is(err, ErrImmutableCompletedSchedule),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPastScheduleTime),
		errors.Is(err, ErrInvalidRecurrence),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
