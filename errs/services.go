package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// External collaborator errors
var (
	ErrImageHost          = errors.New("image hosting failed")
	ErrImageHostDisabled  = errors.New("image hosting is not configured")
	ErrNotification       = errors.New("notification delivery failed")
	ErrCache              = errors.New("cache operation failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)

func NewImageHostError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrImageHost,
		Details:    fmt.Sprintf("Image host failed to %s", operation),
		Cause:      cause,
		Field:      "image",
	}
}

func NewImageHostDisabledError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrImageHostDisabled,
		Field:      "image",
	}
}

func NewNotificationError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotification,
		Details:    fmt.Sprintf("Failed to deliver %s notification", channel),
		Cause:      cause,
	}
}

func NewCacheError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrCache,
		Details:    fmt.Sprintf("Cache %s failed", operation),
		Cause:      cause,
	}
}

func IsImageHostError(err error) bool {
	return errors.Is(err, ErrImageHost)
}

func IsImageHostDisabledError(err error) bool {
	return errors.Is(err, ErrImageHostDisabled)
}

func IsCacheError(err error) bool {
	return errors.Is(err, ErrCache)
}

func NewMaintenanceError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        errors.New(message),
		Cause:      ErrServiceUnavailable,
	}
}
