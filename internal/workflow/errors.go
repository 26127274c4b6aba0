package workflow

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for workflow transitions.
var (
	// ErrPermissionDenied indicates a caller role outside the allow-list.
	ErrPermissionDenied = errors.New("role is not permitted to edit reviews")
	// ErrAlreadySubmitted indicates a mutation attempted on a terminal instance.
	ErrAlreadySubmitted = errors.New("review workflow already submitted")
	// ErrLastStep indicates an advance attempted past the final step.
	ErrLastStep = errors.New("already at final step; submit instead")
	// ErrFirstStep indicates a retreat attempted from the first step.
	ErrFirstStep = errors.New("already at first step")
	// ErrStepOutOfRange indicates a draft step index outside the scheme's steps.
	ErrStepOutOfRange = errors.New("draft step outside scheme step range")
	// ErrUnknownCategory indicates a score for a category the scheme does not define.
	ErrUnknownCategory = errors.New("unknown scoring category")
)

// BlockedError reports a transition rejected by one or more step gates.
// It carries the full failure list so callers can render field-level
// feedback; the transition never partially applies.
type BlockedError struct {
	Step     int       `json:"step"`
	Failures []Failure `json:"failures"`
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("step %d blocked by %d validation failure(s)", e.Step, len(e.Failures))
}

// MapHTTPStatus maps workflow errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrPermissionDenied) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrLastStep) ||
		errors.Is(err, ErrFirstStep) {
		return http.StatusConflict
	}

	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrStepOutOfRange) || errors.Is(err, ErrUnknownCategory) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
