package dashboard

import (
	"errors"
	"net/http"
)

// ErrInvalidWindow indicates a metrics window whose end precedes its start.
var ErrInvalidWindow = errors.New("window end precedes window start")

// ErrInvalidGroupBy indicates an unsupported grouping dimension.
var ErrInvalidGroupBy = errors.New("unsupported group_by dimension")

// MapHTTPStatus maps dashboard errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrInvalidGroupBy):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
