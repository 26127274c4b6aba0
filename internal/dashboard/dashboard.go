// Package dashboard computes summary metrics over review records for
// Camber's reporting surface. Aggregation is a pure pass over in-memory
// records; loading is the system's job.
package dashboard

import (
	"sort"
	"time"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
)

// GroupBy selects the dimension the metrics groups are keyed by.
type GroupBy string

// Supported grouping dimensions.
const (
	GroupByScheme   GroupBy = "scheme"
	GroupByStage    GroupBy = "stage"
	GroupByReviewer GroupBy = "reviewer"
)

// Valid reports whether g names a supported grouping dimension.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByScheme, GroupByStage, GroupByReviewer:
		return true
	}
	return false
}

func (g GroupBy) keyFor(record reviews.Review) string {
	switch g {
	case GroupByStage:
		return record.ProjectStage
	case GroupByReviewer:
		return record.ReviewerName
	default:
		return record.SchemeKey
	}
}

// Metrics is the aggregate snapshot served to dashboards.
// CompletionRate is the 0-1 share of records that are submitted;
// TrendPct is a percentage.
type Metrics struct {
	TotalCount     int     `json:"total_count"`
	CompletedCount int     `json:"completed_count"`
	CompletionRate float64 `json:"completion_rate"`
	AverageScore   float64 `json:"average_score"`
	TrendPct       float64 `json:"trend_pct"`
	GroupBy        GroupBy `json:"group_by"`
	Groups         []Group `json:"groups"`
	Window         Window  `json:"window"`
}

// Group summarizes the reviews sharing one value of the grouping
// dimension. Name is the display name when grouping by scheme, empty
// otherwise.
type Group struct {
	Key              string             `json:"key"`
	Name             string             `json:"name,omitempty"`
	TotalCount       int                `json:"total_count"`
	CompletedCount   int                `json:"completed_count"`
	AverageScore     float64            `json:"average_score"`
	CategoryAverages map[string]float64 `json:"category_averages"`
}

// Window bounds the records included in a metrics snapshot. Nil edges
// are unbounded.
type Window struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Aggregate computes metrics over the given records, grouped by the
// requested dimension (empty defaults to scheme; callers reject unknown
// dimensions via GroupBy.Valid before aggregating). Empty inputs yield
// zero-valued metrics, never division errors. Averages are computed
// only over submitted records carrying an overall score.
func Aggregate(records []reviews.Review, schemeList []schemes.Scheme, window Window, groupBy GroupBy) Metrics {
	if groupBy == "" {
		groupBy = GroupByScheme
	}

	metrics := Metrics{Window: window, GroupBy: groupBy}
	metrics.TotalCount = len(records)

	var scored []reviews.Review
	for _, record := range records {
		if record.Submitted() {
			metrics.CompletedCount++
			if record.OverallScore != nil {
				scored = append(scored, record)
			}
		}
	}

	if metrics.TotalCount > 0 {
		metrics.CompletionRate = float64(metrics.CompletedCount) / float64(metrics.TotalCount)
	}
	metrics.AverageScore = meanOverall(scored)
	metrics.TrendPct = trend(scored)
	metrics.Groups = groupRecords(records, schemeList, groupBy)

	return metrics
}

func meanOverall(scored []reviews.Review) float64 {
	if len(scored) == 0 {
		return 0
	}

	var sum float64
	for _, record := range scored {
		sum += *record.OverallScore
	}
	return sum / float64(len(scored))
}

// trend compares the older half of submitted reviews against the newer
// half, ordered by submission time, and returns the percentage change in
// mean overall score. Either half empty, or a zero baseline, yields 0.
func trend(scored []reviews.Review) float64 {
	if len(scored) < 2 {
		return 0
	}

	ordered := make([]reviews.Review, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return submittedAt(ordered[i]).Before(submittedAt(ordered[j]))
	})

	mid := len(ordered) / 2
	older := meanOverall(ordered[:mid])
	newer := meanOverall(ordered[mid:])

	if older == 0 {
		return 0
	}
	return (newer - older) / older * 100
}

func submittedAt(record reviews.Review) time.Time {
	if record.SubmittedAt != nil {
		return *record.SubmittedAt
	}
	return record.UpdatedAt
}

func groupRecords(records []reviews.Review, schemeList []schemes.Scheme, groupBy GroupBy) []Group {
	byKey := make(map[string][]reviews.Review)
	for _, record := range records {
		key := groupBy.keyFor(record)
		byKey[key] = append(byKey[key], record)
	}

	names := make(map[string]string, len(schemeList))
	if groupBy == GroupByScheme {
		for _, scheme := range schemeList {
			names[scheme.Key] = scheme.Name
		}
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, buildGroup(key, names[key], byKey[key]))
	}
	return groups
}

func buildGroup(key, name string, records []reviews.Review) Group {
	group := Group{
		Key:              key,
		Name:             name,
		TotalCount:       len(records),
		CategoryAverages: make(map[string]float64),
	}

	var scored []reviews.Review
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, record := range records {
		if !record.Submitted() {
			continue
		}
		group.CompletedCount++
		if record.OverallScore != nil {
			scored = append(scored, record)
		}
		for category, value := range record.Scores {
			sums[category] += value
			counts[category]++
		}
	}

	group.AverageScore = meanOverall(scored)
	for category, sum := range sums {
		group.CategoryAverages[category] = sum / float64(counts[category])
	}

	return group
}
