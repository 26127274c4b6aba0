package reviews

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/camber-build/camber/pkg/query"
	"github.com/camber-build/camber/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reviews", "r").
	Project("id", "ID").
	Project("scheme_key", "SchemeKey").
	Project("review_type", "ReviewType").
	Project("project_stage", "ProjectStage").
	Project("reviewer_name", "ReviewerName").
	Project("current_step", "CurrentStep").
	Project("status", "Status").
	Project("scores", "Scores").
	Project("comments", "Comments").
	Project("recommendations", "Recommendations").
	Project("issues", "Issues").
	Project("attachments", "Attachments").
	Project("overall_score", "OverallScore").
	Project("score_label", "ScoreLabel").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("submitted_at", "SubmittedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for review queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	SchemeKey    *string `json:"scheme_key,omitempty"`
	ReviewType   *string `json:"review_type,omitempty"`
	ProjectStage *string `json:"project_stage,omitempty"`
	ReviewerName *string `json:"reviewer_name,omitempty"`
	Status       *string `json:"status,omitempty"`
	ScoreLabel   *string `json:"score_label,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SchemeKey", f.SchemeKey).
		WhereEquals("ReviewType", f.ReviewType).
		WhereEquals("ProjectStage", f.ProjectStage).
		WhereEquals("ReviewerName", f.ReviewerName).
		WhereEquals("Status", f.Status).
		WhereEquals("ScoreLabel", f.ScoreLabel)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// The sentinel value "all" is treated the same as an absent filter.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	f.SchemeKey = filterValue(values, "scheme_key")
	f.ReviewType = filterValue(values, "review_type")
	f.ProjectStage = filterValue(values, "project_stage")
	f.ReviewerName = filterValue(values, "reviewer_name")
	f.Status = filterValue(values, "status")
	f.ScoreLabel = filterValue(values, "score_label")

	return f
}

func filterValue(values url.Values, key string) *string {
	if v := values.Get(key); v != "" && v != "all" {
		return &v
	}
	return nil
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	var scoresRaw, recommendationsRaw, issuesRaw, attachmentsRaw []byte

	err := s.Scan(
		&r.ID,
		&r.SchemeKey,
		&r.ReviewType,
		&r.ProjectStage,
		&r.ReviewerName,
		&r.CurrentStep,
		&r.Status,
		&scoresRaw,
		&r.Comments,
		&recommendationsRaw,
		&issuesRaw,
		&attachmentsRaw,
		&r.OverallScore,
		&r.ScoreLabel,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.SubmittedAt,
	)

	if err != nil {
		return r, err
	}

	if err := unmarshalColumn(scoresRaw, &r.Scores, "scores"); err != nil {
		return r, err
	}
	if err := unmarshalColumn(recommendationsRaw, &r.Recommendations, "recommendations"); err != nil {
		return r, err
	}
	if err := unmarshalColumn(issuesRaw, &r.Issues, "issues"); err != nil {
		return r, err
	}
	if err := unmarshalColumn(attachmentsRaw, &r.Attachments, "attachments"); err != nil {
		return r, err
	}

	if r.Scores == nil {
		r.Scores = make(map[string]float64)
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}

	return r, nil
}

func unmarshalColumn(raw []byte, dest any, column string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", column, err)
	}
	return nil
}
