package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/imamik/baystack/internal/bay"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

// ErrorMessage explains a failed request.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
}

func (m ErrorMessage) Error() string {
	if m.Advice == "" {
		return m.Reason
	}
	return m.Reason + "\n" + m.Advice
}

func newHTTPError(code int, reason, advice string, cause error) *echo.HTTPError {
	he := echo.NewHTTPError(code, ErrorResponse{Message: ErrorMessage{Reason: reason, Advice: advice}})
	if cause != nil {
		he.SetInternal(cause)
	}
	return he
}

func badRequest(reason string, cause error) *echo.HTTPError {
	return newHTTPError(http.StatusBadRequest, reason, "", cause)
}

// toHTTPError maps domain errors onto HTTP errors. Errors that are already
// HTTP errors pass through unchanged.
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, bay.ErrNotFound):
		return newHTTPError(http.StatusNotFound, err.Error(), "", err)
	case errors.Is(err, bay.ErrInvalidParameter):
		return newHTTPError(http.StatusBadRequest, err.Error(), "", err)
	case errors.Is(err, bay.ErrConflict):
		return newHTTPError(http.StatusConflict, err.Error(), "retry when the running operation has finished", err)
	case errors.Is(err, bay.ErrNotSupported):
		return newHTTPError(http.StatusConflict, err.Error(), "", err)
	default:
		return newHTTPError(http.StatusInternalServerError, "internal error", "check the server log", err)
	}
}

// oneLine flattens joined validation errors for the reason field.
func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
