package reviews

import (
	"errors"
	"net/http"
)

// Domain errors for review operations.
var (
	ErrNotFound     = errors.New("review not found")
	ErrDuplicate    = errors.New("review already exists")
	ErrSubmitted    = errors.New("review has been submitted and is immutable")
	ErrNotDraft     = errors.New("review is not in draft status")
	ErrNotSubmitted = errors.New("review has not been submitted")
)

// MapHTTPStatus maps review domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrSubmitted) ||
		errors.Is(err, ErrNotDraft) || errors.Is(err, ErrNotSubmitted) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
