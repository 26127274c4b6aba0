// Package reviews implements the review record domain for Camber.
// It provides types, data access, and business logic for draft review
// records progressing through the wizard, their submitted scored
// results, and the queryable review logs built on top of them.
package reviews

import (
	"time"

	"github.com/google/uuid"
)

// Status values for a review record.
type Status string

const (
	// StatusDraft marks a mutable work-in-progress review.
	StatusDraft Status = "draft"
	// StatusSubmitted marks an immutable scored review.
	StatusSubmitted Status = "submitted"
)

// Field names addressable by scheme step requirements.
const (
	FieldReviewType   = "review_type"
	FieldProjectStage = "project_stage"
	FieldReviewerName = "reviewer_name"
	FieldComments     = "comments"
)

// Issue records a single problem identified during a review.
type Issue struct {
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
}

// Review is a review record: a mutable draft while Status is draft, and
// an immutable scored result once submitted. Attachments hold opaque
// storage keys; the engine never opens the referenced bytes.
type Review struct {
	ID              uuid.UUID          `json:"id"`
	SchemeKey       string             `json:"scheme_key"`
	ReviewType      string             `json:"review_type"`
	ProjectStage    string             `json:"project_stage"`
	ReviewerName    string             `json:"reviewer_name"`
	CurrentStep     int                `json:"current_step"`
	Status          Status             `json:"status"`
	Scores          map[string]float64 `json:"scores"`
	Comments        string             `json:"comments"`
	Recommendations []string           `json:"recommendations"`
	Issues          []Issue            `json:"issues"`
	Attachments     []string           `json:"attachments"`
	OverallScore    *float64           `json:"overall_score"`
	ScoreLabel      *string            `json:"score_label"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	SubmittedAt     *time.Time         `json:"submitted_at"`
}

// Submitted reports whether the review has reached its terminal state.
func (r *Review) Submitted() bool {
	return r.Status == StatusSubmitted
}

// FieldValue resolves a step-addressable field by name.
func (r *Review) FieldValue(name string) (string, bool) {
	switch name {
	case FieldReviewType:
		return r.ReviewType, true
	case FieldProjectStage:
		return r.ProjectStage, true
	case FieldReviewerName:
		return r.ReviewerName, true
	case FieldComments:
		return r.Comments, true
	default:
		return "", false
	}
}

// Reseed returns a fresh draft carrying this review's content. Submitted
// reviews are immutable; further edits go through the seeded draft.
func (r *Review) Reseed() *Review {
	seeded := *r
	seeded.ID = uuid.New()
	seeded.CurrentStep = 1
	seeded.Status = StatusDraft
	seeded.OverallScore = nil
	seeded.ScoreLabel = nil
	seeded.SubmittedAt = nil

	seeded.Scores = make(map[string]float64, len(r.Scores))
	for k, v := range r.Scores {
		seeded.Scores[k] = v
	}
	seeded.Recommendations = append([]string(nil), r.Recommendations...)
	seeded.Issues = append([]Issue(nil), r.Issues...)
	seeded.Attachments = append([]string(nil), r.Attachments...)

	return &seeded
}

// CreateCommand carries the data needed to open a new review draft.
type CreateCommand struct {
	SchemeKey    string `json:"scheme_key"`
	ReviewType   string `json:"review_type"`
	ProjectStage string `json:"project_stage"`
	ReviewerName string `json:"reviewer_name"`
}

// UpdateCommand carries a whole-record draft replacement. Workflow
// metadata (identity, status, step, score) is preserved from the stored
// record; only draft content fields are applied.
type UpdateCommand struct {
	ReviewType      string             `json:"review_type"`
	ProjectStage    string             `json:"project_stage"`
	ReviewerName    string             `json:"reviewer_name"`
	Scores          map[string]float64 `json:"scores"`
	Comments        string             `json:"comments"`
	Recommendations []string           `json:"recommendations"`
	Issues          []Issue            `json:"issues"`
	Attachments     []string           `json:"attachments"`
}

// Apply overwrites the draft's content fields from the command.
func (cmd *UpdateCommand) Apply(r *Review) {
	r.ReviewType = cmd.ReviewType
	r.ProjectStage = cmd.ProjectStage
	r.ReviewerName = cmd.ReviewerName
	r.Scores = cmd.Scores
	r.Comments = cmd.Comments
	r.Recommendations = cmd.Recommendations
	r.Issues = cmd.Issues
	r.Attachments = cmd.Attachments
}
