package scoring

import (
	"errors"
	"fmt"
)

// ErrNoCategories indicates a scheme with no weighted categories.
var ErrNoCategories = errors.New("scoring scheme has no weighted categories")

// InvalidScoreError indicates a raw score outside [MinScore, MaxScore]
// or off the 0.5-step granularity, identifying the offending category.
type InvalidScoreError struct {
	Category string
	Value    float64
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid score %v for category %s: must be within [%v, %v] at %v increments",
		e.Value, e.Category, MinScore, MaxScore, Granularity)
}

// InvalidWeightError indicates a category weight outside [0, 100].
type InvalidWeightError struct {
	Category string
	Weight   float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid weight %v for category %s: must be within [0, 100]", e.Weight, e.Category)
}

// WeightSumError indicates scheme weights that do not sum to 100 within
// WeightTolerance.
type WeightSumError struct {
	Sum float64
}

func (e *WeightSumError) Error() string {
	return fmt.Sprintf("scheme weights sum to %v: must equal 100 within %v", e.Sum, WeightTolerance)
}
