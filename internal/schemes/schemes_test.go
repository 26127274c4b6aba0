package schemes_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/camber-build/camber/internal/schemes"
	"github.com/camber-build/camber/pkg/scoring"
)

func validCategories() []scoring.Category {
	return []scoring.Category{
		{Key: "design_completeness", Weight: 40},
		{Key: "site_logistics", Weight: 35},
		{Key: "schedule_feasibility", Weight: 25},
	}
}

func validSteps() []schemes.Step {
	return []schemes.Step{
		{Name: "Details", Kind: schemes.StepFields, RequiredFields: []string{"review_type", "reviewer_name"}},
		{Name: "Scoring", Kind: schemes.StepScoring},
		{Name: "Findings", Kind: schemes.StepComments},
		{Name: "Confirm", Kind: schemes.StepConfirm},
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		wantKey *string
	}{
		{
			name:    "no filters",
			values:  url.Values{},
			wantKey: nil,
		},
		{
			name:    "key filter",
			values:  url.Values{"key": {"constructability"}},
			wantKey: strPtr("constructability"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := schemes.FiltersFromQuery(tt.values)

			if (f.Key == nil) != (tt.wantKey == nil) {
				t.Fatalf("Key = %v, want %v", f.Key, tt.wantKey)
			}
			if f.Key != nil && *f.Key != *tt.wantKey {
				t.Errorf("Key = %s, want %s", *f.Key, *tt.wantKey)
			}
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     schemes.CreateCommand
		wantErr error
	}{
		{
			name: "valid scheme",
			cmd: schemes.CreateCommand{
				Key:        "constructability",
				Name:       "Constructability Review",
				Categories: validCategories(),
				Steps:      validSteps(),
			},
			wantErr: nil,
		},
		{
			name: "missing key",
			cmd: schemes.CreateCommand{
				Name:       "Constructability Review",
				Categories: validCategories(),
				Steps:      validSteps(),
			},
			wantErr: schemes.ErrInvalidScheme,
		},
		{
			name: "missing name",
			cmd: schemes.CreateCommand{
				Key:        "constructability",
				Categories: validCategories(),
				Steps:      validSteps(),
			},
			wantErr: schemes.ErrInvalidScheme,
		},
		{
			name: "no categories",
			cmd: schemes.CreateCommand{
				Key:   "constructability",
				Name:  "Constructability Review",
				Steps: validSteps(),
			},
			wantErr: scoring.ErrNoCategories,
		},
		{
			name: "no steps",
			cmd: schemes.CreateCommand{
				Key:        "constructability",
				Name:       "Constructability Review",
				Categories: validCategories(),
			},
			wantErr: schemes.ErrNoSteps,
		},
		{
			name: "unknown step kind",
			cmd: schemes.CreateCommand{
				Key:        "constructability",
				Name:       "Constructability Review",
				Categories: validCategories(),
				Steps:      []schemes.Step{{Name: "Mystery", Kind: schemes.StepKind("mystery")}},
			},
			wantErr: schemes.ErrInvalidScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateCommandValidateWeightSum(t *testing.T) {
	cmd := schemes.CreateCommand{
		Key:  "constructability",
		Name: "Constructability Review",
		Categories: []scoring.Category{
			{Key: "design_completeness", Weight: 40},
			{Key: "site_logistics", Weight: 40},
		},
		Steps: validSteps(),
	}

	err := cmd.Validate()
	var sumErr *scoring.WeightSumError
	if !errors.As(err, &sumErr) {
		t.Fatalf("error = %v, want WeightSumError", err)
	}
}

func TestSchemeCategoryLookup(t *testing.T) {
	s := schemes.Scheme{Categories: validCategories()}

	cat, ok := s.Category("site_logistics")
	if !ok {
		t.Fatal("expected site_logistics to resolve")
	}
	if cat.Weight != 35 {
		t.Errorf("weight = %v, want 35", cat.Weight)
	}

	if _, ok := s.Category("missing"); ok {
		t.Error("unknown category should not resolve")
	}
}

func TestSchemeTotalSteps(t *testing.T) {
	s := schemes.Scheme{Steps: validSteps()}
	if got := s.TotalSteps(); got != 4 {
		t.Errorf("TotalSteps() = %d, want 4", got)
	}

	var empty schemes.Scheme
	if got := empty.TotalSteps(); got != 0 {
		t.Errorf("TotalSteps() = %d, want 0", got)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", schemes.ErrNotFound, http.StatusNotFound},
		{"duplicate", schemes.ErrDuplicate, http.StatusConflict},
		{"in use", schemes.ErrInUse, http.StatusConflict},
		{"invalid scheme", schemes.ErrInvalidScheme, http.StatusBadRequest},
		{"no steps", schemes.ErrNoSteps, http.StatusBadRequest},
		{"no categories", scoring.ErrNoCategories, http.StatusBadRequest},
		{"weight sum", &scoring.WeightSumError{Sum: 80}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schemes.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
