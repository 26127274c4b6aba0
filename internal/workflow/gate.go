package workflow

import (
	"strings"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
)

// Reason is a machine-checkable validation failure code. Callers render
// their own copy; the gate never produces localized messages.
type Reason string

// Validation failure reasons.
const (
	ReasonRequired       Reason = "required"
	ReasonEmptyList      Reason = "empty-list"
	ReasonNoNonzeroScore Reason = "no-nonzero-score"
	ReasonOutOfRange     Reason = "step-out-of-range"
)

// Failure identifies one field blocking a step transition.
type Failure struct {
	Field  string `json:"field"`
	Reason Reason `json:"reason"`
}

// ValidateStep returns the validation failures blocking advance past the
// given 1-based step. An empty result means the step is satisfied.
// Validation is step-local: a clean step N implies nothing about any
// other step. A step index outside [1, scheme.TotalSteps()] is itself a
// failure, never a satisfied gate.
func ValidateStep(step int, draft *reviews.Review, scheme *schemes.Scheme) []Failure {
	if step < 1 || step > scheme.TotalSteps() {
		return []Failure{{Field: "step", Reason: ReasonOutOfRange}}
	}

	spec := scheme.Steps[step-1]

	switch spec.Kind {
	case schemes.StepFields:
		return validateFields(spec.RequiredFields, draft)
	case schemes.StepScoring:
		return validateScoring(draft)
	case schemes.StepComments:
		return validateComments(draft)
	default:
		return nil
	}
}

func validateFields(required []string, draft *reviews.Review) []Failure {
	var failures []Failure
	for _, field := range required {
		value, ok := draft.FieldValue(field)
		if !ok || strings.TrimSpace(value) == "" {
			failures = append(failures, Failure{Field: field, Reason: ReasonRequired})
		}
	}
	return failures
}

func validateScoring(draft *reviews.Review) []Failure {
	for _, value := range draft.Scores {
		if value > 0 {
			return nil
		}
	}
	return []Failure{{Field: "scores", Reason: ReasonNoNonzeroScore}}
}

func validateComments(draft *reviews.Review) []Failure {
	var failures []Failure

	if strings.TrimSpace(draft.Comments) == "" {
		failures = append(failures, Failure{Field: reviews.FieldComments, Reason: ReasonRequired})
	}

	hasRecommendation := false
	for _, rec := range draft.Recommendations {
		if strings.TrimSpace(rec) != "" {
			hasRecommendation = true
			break
		}
	}
	if !hasRecommendation {
		failures = append(failures, Failure{Field: "recommendations", Reason: ReasonEmptyList})
	}

	return failures
}
