// Package scoring implements the weighted multi-criteria scoring model
// used by review workflows. It reduces per-category raw scores to a single
// weighted overall score and a qualitative label band.
package scoring

import "math"

// Score bounds and granularity for raw category scores.
const (
	MinScore    = 0.0
	MaxScore    = 10.0
	Granularity = 0.5
)

// WeightTolerance is the permitted absolute deviation of a scheme's
// weight sum from 100, defending against floating-point rounding.
const WeightTolerance = 0.5

// Qualitative label bands, inclusive at the lower bound of each band.
const (
	LabelExcellent        = "excellent"
	LabelGood             = "good"
	LabelSatisfactory     = "satisfactory"
	LabelNeedsImprovement = "needs-improvement"
	LabelPoor             = "poor"
)

// Category defines a single weighted scoring criterion. Weight is expressed
// on a 0-100 scale; weights across a scheme are expected to sum to 100
// within WeightTolerance.
type Category struct {
	Key         string  `json:"key"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
}

// Result holds the outcome of scoring a set of raw category scores.
// Contributions maps each category key to its proportional share of the
// overall score (raw * weight / total weight), so callers can render
// breakdowns without recomputing.
type Result struct {
	Contributions map[string]float64 `json:"contributions"`
	Overall       float64            `json:"overall"`
	Label         string             `json:"label"`
}

// Score computes the weighted mean of raw category scores over the given
// categories. A category missing from raw counts as 0 rather than being
// excluded from the denominator. The overall score is normalized by the
// total weight, so schemes whose weights do not sum exactly to 100 still
// produce a 0-10 result.
func Score(categories []Category, raw map[string]float64) (*Result, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	var totalWeight float64
	for _, c := range categories {
		totalWeight += c.Weight
	}
	if totalWeight <= 0 {
		return nil, ErrNoCategories
	}

	contributions := make(map[string]float64, len(categories))
	var weighted float64

	for _, c := range categories {
		value := raw[c.Key]
		if value < MinScore || value > MaxScore {
			return nil, &InvalidScoreError{Category: c.Key, Value: value}
		}

		contribution := value * c.Weight / totalWeight
		contributions[c.Key] = contribution
		weighted += contribution
	}

	return &Result{
		Contributions: contributions,
		Overall:       weighted,
		Label:         LabelFor(weighted),
	}, nil
}

// LabelFor returns the qualitative band for a 0-10 overall score.
func LabelFor(score float64) string {
	switch {
	case score >= 9:
		return LabelExcellent
	case score >= 8:
		return LabelGood
	case score >= 6:
		return LabelSatisfactory
	case score >= 4:
		return LabelNeedsImprovement
	default:
		return LabelPoor
	}
}

// ValidateWeights checks that category weights are individually within
// [0, 100] and collectively sum to 100 within WeightTolerance.
func ValidateWeights(categories []Category) error {
	if len(categories) == 0 {
		return ErrNoCategories
	}

	var sum float64
	for _, c := range categories {
		if c.Weight < 0 || c.Weight > 100 {
			return &InvalidWeightError{Category: c.Key, Weight: c.Weight}
		}
		sum += c.Weight
	}

	if math.Abs(sum-100) > WeightTolerance {
		return &WeightSumError{Sum: sum}
	}

	return nil
}

// ValidateRaw checks that a raw score is within [MinScore, MaxScore] and
// lands on the 0.5-step granularity used by review drafts.
func ValidateRaw(category string, value float64) error {
	if value < MinScore || value > MaxScore {
		return &InvalidScoreError{Category: category, Value: value}
	}

	steps := value / Granularity
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return &InvalidScoreError{Category: category, Value: value}
	}

	return nil
}
