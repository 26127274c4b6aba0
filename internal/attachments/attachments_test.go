package attachments_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/camber-build/camber/internal/attachments"
)

func TestFiltersFromQuery(t *testing.T) {
	reviewID := uuid.New()

	tests := []struct {
		name         string
		values       url.Values
		wantReviewID *uuid.UUID
		wantFilename *string
	}{
		{
			name:   "no filters",
			values: url.Values{},
		},
		{
			name:         "review id filter",
			values:       url.Values{"review_id": {reviewID.String()}},
			wantReviewID: &reviewID,
		},
		{
			name:   "malformed review id ignored",
			values: url.Values{"review_id": {"not-a-uuid"}},
		},
		{
			name:         "filename filter",
			values:       url.Values{"filename": {"structural"}},
			wantFilename: strPtr("structural"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := attachments.FiltersFromQuery(tt.values)

			if (f.ReviewID == nil) != (tt.wantReviewID == nil) {
				t.Fatalf("ReviewID = %v, want %v", f.ReviewID, tt.wantReviewID)
			}
			if f.ReviewID != nil && *f.ReviewID != *tt.wantReviewID {
				t.Errorf("ReviewID = %s, want %s", f.ReviewID, tt.wantReviewID)
			}
			if (f.Filename == nil) != (tt.wantFilename == nil) {
				t.Fatalf("Filename = %v, want %v", f.Filename, tt.wantFilename)
			}
			if f.Filename != nil && *f.Filename != *tt.wantFilename {
				t.Errorf("Filename = %s, want %s", *f.Filename, *tt.wantFilename)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", attachments.ErrNotFound, http.StatusNotFound},
		{"duplicate", attachments.ErrDuplicate, http.StatusConflict},
		{"review locked", attachments.ErrReviewLocked, http.StatusConflict},
		{"too large", attachments.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", attachments.ErrInvalidFile, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attachments.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
