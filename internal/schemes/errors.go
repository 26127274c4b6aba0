package schemes

import (
	"errors"
	"net/http"

	"github.com/camber-build/camber/pkg/scoring"
)

// Domain errors for scheme operations.
var (
	ErrNotFound      = errors.New("scheme not found")
	ErrDuplicate     = errors.New("scheme already exists")
	ErrInvalidScheme = errors.New("invalid scheme definition")
	ErrNoSteps       = errors.New("scheme defines no steps")
	ErrInUse         = errors.New("scheme is referenced by existing reviews")
)

// MapHTTPStatus maps scheme domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInUse) {
		return http.StatusConflict
	}

	var invalidWeight *scoring.InvalidWeightError
	var weightSum *scoring.WeightSumError
	if errors.Is(err, ErrInvalidScheme) ||
		errors.Is(err, ErrNoSteps) ||
		errors.Is(err, scoring.ErrNoCategories) ||
		errors.As(err, &invalidWeight) ||
		errors.As(err, &weightSum) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
