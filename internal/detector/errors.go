package detector

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidInput = errors.New("text is required and cannot be empty")
	ErrUnexpected   = errors.New("unexpected classification failure")
)

// MapHTTPStatus maps detector errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
