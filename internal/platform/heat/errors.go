package heat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
)

var (
	// ErrNotFound is returned when the stack does not exist.
	ErrNotFound = errors.New("stack not found")

	// ErrBadRequest is returned when Heat rejects the submitted template or
	// parameters.
	ErrBadRequest = errors.New("bad request")
)

// IsNotFound reports whether err means the stack does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest reports whether err means Heat rejected the request input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// classify wraps a gophercloud error so the package sentinels match it.
func classify(action string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case gophercloud.ResponseCodeIs(err, http.StatusNotFound):
		return fmt.Errorf("failed to %s: %w: %w", action, ErrNotFound, err)
	case gophercloud.ResponseCodeIs(err, http.StatusBadRequest):
		return fmt.Errorf("failed to %s: %w: %w", action, ErrBadRequest, err)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
