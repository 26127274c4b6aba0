package reviews_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/pkg/listquery"
	"github.com/camber-build/camber/pkg/pagination"
)

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		values     url.Values
		wantScheme *string
		wantStatus *string
	}{
		{
			name:   "no filters",
			values: url.Values{},
		},
		{
			name:       "scheme and status",
			values:     url.Values{"scheme_key": {"constructability"}, "status": {"draft"}},
			wantScheme: strPtr("constructability"),
			wantStatus: strPtr("draft"),
		},
		{
			name:   "all sentinel ignored",
			values: url.Values{"scheme_key": {"all"}, "status": {"all"}},
		},
		{
			name:       "mixed sentinel and value",
			values:     url.Values{"scheme_key": {"all"}, "status": {"submitted"}},
			wantStatus: strPtr("submitted"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := reviews.FiltersFromQuery(tt.values)

			assertFilter(t, "SchemeKey", f.SchemeKey, tt.wantScheme)
			assertFilter(t, "Status", f.Status, tt.wantStatus)
		})
	}
}

func assertFilter(t *testing.T, name string, got, want *string) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	if got != nil && *got != *want {
		t.Errorf("%s = %s, want %s", name, *got, *want)
	}
}

func TestFieldValue(t *testing.T) {
	r := reviews.Review{
		ReviewType:   "constructability",
		ProjectStage: "design-development",
		ReviewerName: "Dana Alvarez",
		Comments:     "crane access is tight on the north elevation",
	}

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{reviews.FieldReviewType, "constructability", true},
		{reviews.FieldProjectStage, "design-development", true},
		{reviews.FieldReviewerName, "Dana Alvarez", true},
		{reviews.FieldComments, "crane access is tight on the north elevation", true},
		{"unknown_field", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := r.FieldValue(tt.field)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReseed(t *testing.T) {
	score := 7.5
	label := "satisfactory"
	submitted := time.Now().UTC()

	original := reviews.Review{
		ID:              uuid.New(),
		SchemeKey:       "constructability",
		ReviewerName:    "Dana Alvarez",
		CurrentStep:     4,
		Status:          reviews.StatusSubmitted,
		Scores:          map[string]float64{"design_completeness": 8},
		Recommendations: []string{"resequence steel deliveries"},
		OverallScore:    &score,
		ScoreLabel:      &label,
		SubmittedAt:     &submitted,
	}

	seeded := original.Reseed()

	if seeded.ID == original.ID {
		t.Error("seeded draft should have a new identity")
	}
	if seeded.Status != reviews.StatusDraft {
		t.Errorf("status = %s, want draft", seeded.Status)
	}
	if seeded.CurrentStep != 1 {
		t.Errorf("current step = %d, want 1", seeded.CurrentStep)
	}
	if seeded.OverallScore != nil || seeded.ScoreLabel != nil || seeded.SubmittedAt != nil {
		t.Error("scoring results should be cleared on reseed")
	}
	if seeded.SchemeKey != original.SchemeKey {
		t.Errorf("scheme key = %s, want %s", seeded.SchemeKey, original.SchemeKey)
	}
	if seeded.Scores["design_completeness"] != 8 {
		t.Error("scores should carry over")
	}

	seeded.Scores["design_completeness"] = 3
	seeded.Recommendations[0] = "changed"
	if original.Scores["design_completeness"] != 8 {
		t.Error("mutating the seeded draft should not affect the original scores")
	}
	if original.Recommendations[0] != "resequence steel deliveries" {
		t.Error("mutating the seeded draft should not affect the original recommendations")
	}
}

func TestUpdateCommandApply(t *testing.T) {
	score := 7.5
	submitted := time.Now().UTC()
	r := reviews.Review{
		ID:           uuid.New(),
		SchemeKey:    "constructability",
		CurrentStep:  3,
		Status:       reviews.StatusDraft,
		OverallScore: &score,
		SubmittedAt:  &submitted,
	}
	id := r.ID

	cmd := reviews.UpdateCommand{
		ReviewType:      "constructability",
		ProjectStage:    "construction-documents",
		ReviewerName:    "Priya Natarajan",
		Scores:          map[string]float64{"site_logistics": 6.5},
		Comments:        "laydown area conflicts with phase 2 excavation",
		Recommendations: []string{"relocate laydown to the east lot"},
	}
	cmd.Apply(&r)

	if r.ID != id {
		t.Error("identity should be preserved")
	}
	if r.SchemeKey != "constructability" {
		t.Error("scheme key should be preserved")
	}
	if r.CurrentStep != 3 {
		t.Error("current step should be preserved")
	}
	if r.OverallScore != &score || r.SubmittedAt != &submitted {
		t.Error("scoring metadata should be preserved")
	}
	if r.ProjectStage != "construction-documents" {
		t.Errorf("project stage = %s", r.ProjectStage)
	}
	if r.Scores["site_logistics"] != 6.5 {
		t.Errorf("scores = %v", r.Scores)
	}
	if r.Comments != "laydown area conflicts with phase 2 excavation" {
		t.Errorf("comments = %s", r.Comments)
	}
}

func TestSubmitted(t *testing.T) {
	draft := reviews.Review{Status: reviews.StatusDraft}
	if draft.Submitted() {
		t.Error("draft should not report submitted")
	}

	done := reviews.Review{Status: reviews.StatusSubmitted}
	if !done.Submitted() {
		t.Error("submitted review should report submitted")
	}
}

func TestQueryIssues(t *testing.T) {
	issues := []reviews.Issue{
		{Description: "crane swing overlaps the occupied office wing", Severity: "high"},
		{Description: "temporary power routing not shown", Severity: "medium"},
		{Description: "laydown area conflicts with phase 2 excavation", Severity: "high"},
		{Description: "missing dimension on grid line C", Severity: "low"},
	}

	t.Run("severity filter", func(t *testing.T) {
		result, err := reviews.QueryIssues(issues, listquery.Spec{
			Filters:   map[string]string{"severity": "high"},
			PageSize:  10,
			PageIndex: 1,
		})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if result.TotalCount != 2 {
			t.Errorf("total = %d, want 2", result.TotalCount)
		}
	})

	t.Run("term search", func(t *testing.T) {
		result, err := reviews.QueryIssues(issues, listquery.Spec{
			Term:      "laydown",
			PageSize:  10,
			PageIndex: 1,
		})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if result.TotalCount != 1 {
			t.Fatalf("total = %d, want 1", result.TotalCount)
		}
		if result.Page[0].Severity != "high" {
			t.Errorf("severity = %s, want high", result.Page[0].Severity)
		}
	})

	t.Run("unknown sort field rejected", func(t *testing.T) {
		_, err := reviews.QueryIssues(issues, listquery.Spec{
			SortField: "assignee",
			PageSize:  10,
			PageIndex: 1,
		})
		if !errors.Is(err, listquery.ErrUnknownField) {
			t.Errorf("error = %v, want ErrUnknownField", err)
		}
	})
}

func TestIssueSpecFromQuery(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	values := url.Values{
		"term":      {"crane"},
		"severity":  {"high"},
		"sort":      {"severity"},
		"dir":       {"desc"},
		"page":      {"2"},
		"page_size": {"500"},
	}

	spec := reviews.IssueSpecFromQuery(values, cfg)

	if spec.Term != "crane" {
		t.Errorf("term = %s, want crane", spec.Term)
	}
	if spec.Filters["severity"] != "high" {
		t.Errorf("filters = %v", spec.Filters)
	}
	if spec.SortField != "severity" || spec.SortDirection != listquery.Descending {
		t.Errorf("sort = %s %s", spec.SortField, spec.SortDirection)
	}
	if spec.PageIndex != 2 {
		t.Errorf("page index = %d, want 2", spec.PageIndex)
	}
	if spec.PageSize != 100 {
		t.Errorf("page size = %d, want clamped to 100", spec.PageSize)
	}

	defaults := reviews.IssueSpecFromQuery(url.Values{}, cfg)
	if defaults.PageSize != 20 || defaults.PageIndex != 1 {
		t.Errorf("defaults = %d/%d, want 20/1", defaults.PageSize, defaults.PageIndex)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", reviews.ErrNotFound, http.StatusNotFound},
		{"duplicate", reviews.ErrDuplicate, http.StatusConflict},
		{"submitted", reviews.ErrSubmitted, http.StatusConflict},
		{"not draft", reviews.ErrNotDraft, http.StatusConflict},
		{"not submitted", reviews.ErrNotSubmitted, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reviews.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
