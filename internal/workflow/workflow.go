// Package workflow implements the review wizard state machine for Camber.
// A Workflow sequences the ordered steps of a scoring scheme over a single
// review draft, gating each forward transition through step validation and
// handing the finished draft to the scoring model at submit.
//
// A Workflow instance is owned by exactly one logical editing session:
// it is not safe for concurrent mutation, and callers must serialize
// Advance, Retreat, SaveDraft, and Submit against one instance.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
	"github.com/camber-build/camber/pkg/scoring"
)

// Store is the persistence collaborator the workflow hands drafts and
// submitted reviews to. Save is an idempotent upsert keyed by review
// identity; the workflow performs no deduplication of its own.
type Store interface {
	Save(ctx context.Context, review *reviews.Review) error
}

// Workflow drives one review draft through the steps of its scheme.
type Workflow struct {
	store  Store
	scheme *schemes.Scheme
	draft  *reviews.Review
	logger *slog.Logger
	dirty  bool
}

// New creates a workflow over the given draft. The caller's role is
// checked against the allow-list once here, not per transition; callers
// outside the list cannot edit or submit at all. Constructing a workflow
// over a submitted review fails with ErrAlreadySubmitted.
func New(
	store Store,
	scheme *schemes.Scheme,
	draft *reviews.Review,
	role string,
	allowed []string,
	logger *slog.Logger,
) (*Workflow, error) {
	if !slices.Contains(allowed, role) {
		return nil, fmt.Errorf("%w: role %q", ErrPermissionDenied, role)
	}
	if draft.Submitted() {
		return nil, ErrAlreadySubmitted
	}
	if scheme.TotalSteps() == 0 {
		return nil, schemes.ErrNoSteps
	}
	if draft.CurrentStep < 1 {
		draft.CurrentStep = 1
	}
	if draft.CurrentStep > scheme.TotalSteps() {
		return nil, fmt.Errorf("%w: step %d of %d", ErrStepOutOfRange, draft.CurrentStep, scheme.TotalSteps())
	}

	return &Workflow{
		store:  store,
		scheme: scheme,
		draft:  draft,
		logger: logger.With("workflow", "review", "review_id", draft.ID),
	}, nil
}

// Draft returns the review record the workflow is operating on.
func (w *Workflow) Draft() *reviews.Review {
	return w.draft
}

// CurrentStep returns the draft's 1-based step index.
func (w *Workflow) CurrentStep() int {
	return w.draft.CurrentStep
}

// Dirty reports whether the draft has unsaved mutations.
func (w *Workflow) Dirty() bool {
	return w.dirty
}

// SetScore records a raw category score on the draft. The category must
// exist in the scheme and the value must be within [0, 10] on the
// 0.5-step granularity.
func (w *Workflow) SetScore(category string, value float64) error {
	if w.draft.Submitted() {
		return ErrAlreadySubmitted
	}
	if _, ok := w.scheme.Category(category); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if err := scoring.ValidateRaw(category, value); err != nil {
		return err
	}

	if w.draft.Scores == nil {
		w.draft.Scores = make(map[string]float64)
	}
	w.draft.Scores[category] = value
	w.dirty = true
	return nil
}

// Advance moves the draft to the next step if the current step's gate is
// satisfied. A failing gate yields a *BlockedError and the step does not
// change. At the final step Advance is rejected with ErrLastStep; the
// caller must Submit instead.
func (w *Workflow) Advance(ctx context.Context) error {
	if w.draft.Submitted() {
		return ErrAlreadySubmitted
	}

	if failures := ValidateStep(w.draft.CurrentStep, w.draft, w.scheme); len(failures) > 0 {
		return &BlockedError{Step: w.draft.CurrentStep, Failures: failures}
	}

	if w.draft.CurrentStep >= w.scheme.TotalSteps() {
		return ErrLastStep
	}

	w.draft.CurrentStep++
	w.dirty = true

	w.logger.Debug("step advanced", "step", w.draft.CurrentStep)
	return w.SaveDraft(ctx)
}

// Retreat moves the draft to the previous step. Moving backward never
// runs validation and is always allowed above step 1.
func (w *Workflow) Retreat(ctx context.Context) error {
	if w.draft.Submitted() {
		return ErrAlreadySubmitted
	}
	if w.draft.CurrentStep <= 1 {
		return ErrFirstStep
	}

	w.draft.CurrentStep--
	w.dirty = true

	w.logger.Debug("step retreated", "step", w.draft.CurrentStep)
	return w.SaveDraft(ctx)
}

// SaveDraft persists the draft as-is, valid or not, without advancing.
// It is callable from any step and repeatedly; the store upserts by
// draft identity.
func (w *Workflow) SaveDraft(ctx context.Context) error {
	if w.draft.Submitted() {
		return ErrAlreadySubmitted
	}

	w.draft.Status = reviews.StatusDraft
	if err := w.store.Save(ctx, w.draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	w.dirty = false
	return nil
}

// Submit finalizes the review: every step's gate must be satisfied, the
// scoring model computes the overall score and label, and the record is
// persisted as submitted. Submit is one-way; the workflow instance
// rejects all further transitions, and edits require a reseeded draft.
// The draft is only stamped submitted once the store accepts the record;
// a failed save leaves it a retryable draft.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.draft.Submitted() {
		return ErrAlreadySubmitted
	}

	var failures []Failure
	for step := 1; step <= w.scheme.TotalSteps(); step++ {
		failures = append(failures, ValidateStep(step, w.draft, w.scheme)...)
	}
	if len(failures) > 0 {
		return &BlockedError{Step: w.draft.CurrentStep, Failures: failures}
	}

	result, err := scoring.Score(w.scheme.Categories, w.draft.Scores)
	if err != nil {
		return fmt.Errorf("score review: %w", err)
	}

	now := time.Now().UTC()
	submitted := *w.draft
	submitted.Status = reviews.StatusSubmitted
	submitted.OverallScore = &result.Overall
	submitted.ScoreLabel = &result.Label
	submitted.SubmittedAt = &now

	if err := w.store.Save(ctx, &submitted); err != nil {
		return fmt.Errorf("save submitted review: %w", err)
	}

	*w.draft = submitted
	w.dirty = false
	w.logger.Info("review submitted",
		"overall_score", result.Overall,
		"label", result.Label,
	)
	return nil
}
