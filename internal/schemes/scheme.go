// Package schemes implements the scoring scheme domain for Camber.
// A scheme fixes the weighted category set and the ordered wizard steps
// for one review type; it is immutable once reviews reference it.
package schemes

import (
	"time"

	"github.com/google/uuid"

	"github.com/camber-build/camber/pkg/scoring"
)

// StepKind selects the validation rule applied to a wizard step.
type StepKind string

// Step kinds understood by the validation gate.
const (
	// StepFields requires each listed field to be non-empty.
	StepFields StepKind = "fields"
	// StepScoring requires at least one category to carry a non-zero score.
	StepScoring StepKind = "scoring"
	// StepComments requires non-empty comments and at least one recommendation.
	StepComments StepKind = "comments"
	// StepConfirm has no requirements of its own.
	StepConfirm StepKind = "confirm"
)

// Step describes one ordered wizard step within a scheme.
type Step struct {
	Name           string   `json:"name"`
	Kind           StepKind `json:"kind"`
	RequiredFields []string `json:"required_fields,omitempty"`
}

// Scheme is an ordered set of weighted scoring categories plus the wizard
// step layout used to validate review drafts of this type.
type Scheme struct {
	ID         uuid.UUID          `json:"id"`
	Key        string             `json:"key"`
	Name       string             `json:"name"`
	Categories []scoring.Category `json:"categories"`
	Steps      []Step             `json:"steps"`
	CreatedAt  time.Time          `json:"created_at"`
}

// TotalSteps returns the number of wizard steps in the scheme.
func (s *Scheme) TotalSteps() int {
	return len(s.Steps)
}

// Category returns the category definition for key, if present.
func (s *Scheme) Category(key string) (scoring.Category, bool) {
	for _, c := range s.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return scoring.Category{}, false
}

// CreateCommand carries the data needed to register a new scheme.
type CreateCommand struct {
	Key        string             `json:"key"`
	Name       string             `json:"name"`
	Categories []scoring.Category `json:"categories"`
	Steps      []Step             `json:"steps"`
}

// Validate checks the command for structural problems: missing key or
// name, malformed weights, no steps, or an unknown step kind.
func (cmd *CreateCommand) Validate() error {
	if cmd.Key == "" || cmd.Name == "" {
		return ErrInvalidScheme
	}

	if err := scoring.ValidateWeights(cmd.Categories); err != nil {
		return err
	}

	if len(cmd.Steps) == 0 {
		return ErrNoSteps
	}

	for _, step := range cmd.Steps {
		switch step.Kind {
		case StepFields, StepScoring, StepComments, StepConfirm:
		default:
			return ErrInvalidScheme
		}
	}

	return nil
}
