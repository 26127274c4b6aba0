package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
	"github.com/camber-build/camber/internal/workflow"
	"github.com/camber-build/camber/pkg/scoring"
)

type memoryStore struct {
	saved []*reviews.Review
	err   error
}

func (s *memoryStore) Save(_ context.Context, review *reviews.Review) error {
	if s.err != nil {
		return s.err
	}

	copied := *review
	s.saved = append(s.saved, &copied)
	return nil
}

func testScheme() *schemes.Scheme {
	return &schemes.Scheme{
		ID:   uuid.New(),
		Key:  "constructability",
		Name: "Constructability Review",
		Categories: []scoring.Category{
			{Key: "design_completeness", Weight: 25},
			{Key: "site_logistics", Weight: 25},
			{Key: "schedule_feasibility", Weight: 25},
			{Key: "cost_alignment", Weight: 25},
		},
		Steps: []schemes.Step{
			{
				Name: "Details",
				Kind: schemes.StepFields,
				RequiredFields: []string{
					reviews.FieldReviewType,
					reviews.FieldProjectStage,
					reviews.FieldReviewerName,
				},
			},
			{Name: "Scoring", Kind: schemes.StepScoring},
			{Name: "Findings", Kind: schemes.StepComments},
			{Name: "Confirm", Kind: schemes.StepConfirm},
		},
	}
}

func testDraft() *reviews.Review {
	return &reviews.Review{
		ID:           uuid.New(),
		SchemeKey:    "constructability",
		ReviewType:   "constructability",
		ProjectStage: "design-development",
		ReviewerName: "R. Alvarez",
		CurrentStep:  1,
		Status:       reviews.StatusDraft,
		Scores: map[string]float64{
			"design_completeness":  8,
			"site_logistics":       7,
			"schedule_feasibility": 6.5,
			"cost_alignment":       7.5,
		},
		Comments:        "Foundation detailing needs coordination with MEP.",
		Recommendations: []string{"Resolve clash reports before GMP."},
	}
}

func newTestWorkflow(t *testing.T, store workflow.Store, draft *reviews.Review) *workflow.Workflow {
	t.Helper()

	flow, err := workflow.New(store, testScheme(), draft, "admin", submitRoles(), discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return flow
}

func submitRoles() []string {
	return []string{"admin", "project-manager", "project-executive"}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPermissionDenied(t *testing.T) {
	for _, role := range []string{"", "viewer", "subcontractor"} {
		_, err := workflow.New(&memoryStore{}, testScheme(), testDraft(), role, submitRoles(), discard())
		if !errors.Is(err, workflow.ErrPermissionDenied) {
			t.Errorf("New(role=%q) error = %v, want ErrPermissionDenied", role, err)
		}
	}
}

func TestNewSubmittedReviewRejected(t *testing.T) {
	draft := testDraft()
	draft.Status = reviews.StatusSubmitted

	_, err := workflow.New(&memoryStore{}, testScheme(), draft, "admin", submitRoles(), discard())
	if !errors.Is(err, workflow.ErrAlreadySubmitted) {
		t.Errorf("New() error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestAdvanceBlockedByRequiredField(t *testing.T) {
	draft := testDraft()
	draft.ReviewerName = "  "

	store := &memoryStore{}
	flow := newTestWorkflow(t, store, draft)

	err := flow.Advance(context.Background())

	var blocked *workflow.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("Advance() error = %v, want *BlockedError", err)
	}

	want := workflow.Failure{Field: reviews.FieldReviewerName, Reason: workflow.ReasonRequired}
	if len(blocked.Failures) != 1 || blocked.Failures[0] != want {
		t.Errorf("Failures = %v, want [%v]", blocked.Failures, want)
	}

	if flow.CurrentStep() != 1 {
		t.Errorf("CurrentStep() = %d, want 1 after blocked advance", flow.CurrentStep())
	}
	if len(store.saved) != 0 {
		t.Errorf("blocked advance persisted %d records, want 0", len(store.saved))
	}
}

func TestAdvanceThroughAllSteps(t *testing.T) {
	store := &memoryStore{}
	flow := newTestWorkflow(t, store, testDraft())
	ctx := context.Background()

	for want := 2; want <= 4; want++ {
		if err := flow.Advance(ctx); err != nil {
			t.Fatalf("Advance() to step %d error = %v", want, err)
		}
		if flow.CurrentStep() != want {
			t.Fatalf("CurrentStep() = %d, want %d", flow.CurrentStep(), want)
		}
	}

	if err := flow.Advance(ctx); !errors.Is(err, workflow.ErrLastStep) {
		t.Errorf("Advance() at final step error = %v, want ErrLastStep", err)
	}
}

func TestRetreat(t *testing.T) {
	store := &memoryStore{}
	draft := testDraft()
	draft.CurrentStep = 3
	flow := newTestWorkflow(t, store, draft)
	ctx := context.Background()

	if err := flow.Retreat(ctx); err != nil {
		t.Fatalf("Retreat() error = %v", err)
	}
	if flow.CurrentStep() != 2 {
		t.Errorf("CurrentStep() = %d, want 2", flow.CurrentStep())
	}

	if err := flow.Retreat(ctx); err != nil {
		t.Fatalf("Retreat() error = %v", err)
	}
	if err := flow.Retreat(ctx); !errors.Is(err, workflow.ErrFirstStep) {
		t.Errorf("Retreat() at step 1 error = %v, want ErrFirstStep", err)
	}
}

func TestRetreatSkipsValidation(t *testing.T) {
	draft := testDraft()
	draft.CurrentStep = 2
	draft.ReviewerName = ""

	flow := newTestWorkflow(t, &memoryStore{}, draft)

	if err := flow.Retreat(context.Background()); err != nil {
		t.Errorf("Retreat() with invalid fields error = %v, want nil", err)
	}
}

func TestSaveDraftNeverValidates(t *testing.T) {
	draft := testDraft()
	draft.ReviewerName = ""
	draft.Comments = ""
	draft.Scores = nil

	store := &memoryStore{}
	flow := newTestWorkflow(t, store, draft)

	if err := flow.SaveDraft(context.Background()); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(store.saved))
	}
	if store.saved[0].Status != reviews.StatusDraft {
		t.Errorf("saved status = %s, want draft", store.saved[0].Status)
	}
}

func TestSetScore(t *testing.T) {
	flow := newTestWorkflow(t, &memoryStore{}, testDraft())

	if err := flow.SetScore("site_logistics", 9.5); err != nil {
		t.Fatalf("SetScore() error = %v", err)
	}
	if got := flow.Draft().Scores["site_logistics"]; got != 9.5 {
		t.Errorf("score = %v, want 9.5", got)
	}
	if !flow.Dirty() {
		t.Error("Dirty() = false after SetScore, want true")
	}

	if err := flow.SetScore("unknown_category", 5); !errors.Is(err, workflow.ErrUnknownCategory) {
		t.Errorf("SetScore(unknown) error = %v, want ErrUnknownCategory", err)
	}
	if err := flow.SetScore("site_logistics", 7.3); err == nil {
		t.Error("SetScore(7.3) error = nil, want granularity error")
	}
}

func TestSubmitComputesScoreAndFinalizes(t *testing.T) {
	store := &memoryStore{}
	draft := testDraft()
	flow := newTestWorkflow(t, store, draft)

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if draft.Status != reviews.StatusSubmitted {
		t.Errorf("status = %s, want submitted", draft.Status)
	}
	if draft.OverallScore == nil || *draft.OverallScore != 7.25 {
		t.Errorf("overall score = %v, want 7.25", draft.OverallScore)
	}
	if draft.ScoreLabel == nil || *draft.ScoreLabel != scoring.LabelSatisfactory {
		t.Errorf("label = %v, want %s", draft.ScoreLabel, scoring.LabelSatisfactory)
	}
	if draft.SubmittedAt == nil {
		t.Error("SubmittedAt = nil, want timestamp")
	}
}

func TestSubmitIsOneWay(t *testing.T) {
	flow := newTestWorkflow(t, &memoryStore{}, testDraft())
	ctx := context.Background()

	if err := flow.Submit(ctx); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	transitions := map[string]error{
		"Submit":    flow.Submit(ctx),
		"Advance":   flow.Advance(ctx),
		"Retreat":   flow.Retreat(ctx),
		"SaveDraft": flow.SaveDraft(ctx),
		"SetScore":  flow.SetScore("site_logistics", 5),
	}
	for name, err := range transitions {
		if !errors.Is(err, workflow.ErrAlreadySubmitted) {
			t.Errorf("%s after submit error = %v, want ErrAlreadySubmitted", name, err)
		}
	}
}

func TestSubmitValidatesEveryStep(t *testing.T) {
	draft := testDraft()
	draft.CurrentStep = 4
	draft.ProjectStage = ""
	draft.Recommendations = nil

	flow := newTestWorkflow(t, &memoryStore{}, draft)

	err := flow.Submit(context.Background())

	var blocked *workflow.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("Submit() error = %v, want *BlockedError", err)
	}

	fields := make(map[string]workflow.Reason, len(blocked.Failures))
	for _, f := range blocked.Failures {
		fields[f.Field] = f.Reason
	}

	if fields[reviews.FieldProjectStage] != workflow.ReasonRequired {
		t.Errorf("missing project_stage failure, got %v", blocked.Failures)
	}
	if fields["recommendations"] != workflow.ReasonEmptyList {
		t.Errorf("missing recommendations failure, got %v", blocked.Failures)
	}
	if draft.Submitted() {
		t.Error("blocked submit changed review status")
	}
}

func TestSubmitStoreFailureKeepsDraftRecoverable(t *testing.T) {
	store := &memoryStore{err: errors.New("connection reset")}
	draft := testDraft()
	flow := newTestWorkflow(t, store, draft)
	ctx := context.Background()

	if err := flow.Submit(ctx); err == nil {
		t.Fatal("Submit() error = nil, want store failure")
	}

	if draft.Status != reviews.StatusDraft {
		t.Errorf("status after failed submit = %s, want draft", draft.Status)
	}
	if draft.OverallScore != nil || draft.ScoreLabel != nil || draft.SubmittedAt != nil {
		t.Error("failed submit stamped scoring results on the draft")
	}

	if err := flow.SaveDraft(ctx); errors.Is(err, workflow.ErrAlreadySubmitted) {
		t.Error("SaveDraft() after failed submit = ErrAlreadySubmitted, want retryable store error")
	}

	store.err = nil
	if err := flow.Submit(ctx); err != nil {
		t.Fatalf("Submit() retry error = %v", err)
	}
	if !draft.Submitted() {
		t.Error("retried submit did not finalize the draft")
	}
	if len(store.saved) != 1 || store.saved[0].Status != reviews.StatusSubmitted {
		t.Fatalf("saved %d records, want exactly one submitted record", len(store.saved))
	}
}
