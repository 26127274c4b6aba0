package workflow

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
	"github.com/camber-build/camber/pkg/auth"
	"github.com/camber-build/camber/pkg/handlers"
	"github.com/camber-build/camber/pkg/routes"
)

// Handler exposes workflow transitions over HTTP. Each transition loads
// the review and its scheme, applies any draft content sent in the
// request body, constructs a Workflow for the caller's role, and runs
// the transition.
type Handler struct {
	reviews     reviews.System
	schemes     schemes.System
	submitRoles []string
	logger      *slog.Logger
}

// TransitionRequest optionally carries draft content to apply before the
// transition runs. A nil or empty body transitions the stored draft as-is.
type TransitionRequest struct {
	Content *reviews.UpdateCommand `json:"content,omitempty"`
}

// StateResponse reports the workflow position after a transition.
type StateResponse struct {
	Review      *reviews.Review `json:"review"`
	CurrentStep int             `json:"current_step"`
	TotalSteps  int             `json:"total_steps"`
}

// NewHandler creates a workflow Handler.
func NewHandler(
	rev reviews.System,
	sch schemes.System,
	submitRoles []string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		reviews:     rev,
		schemes:     sch,
		submitRoles: submitRoles,
		logger:      logger.With("handler", "workflow"),
	}
}

// Routes returns the route group definition for workflow transitions.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reviews",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/advance", Handler: h.Advance},
			{Method: "POST", Pattern: "/{id}/retreat", Handler: h.Retreat},
			{Method: "POST", Pattern: "/{id}/save", Handler: h.Save},
			{Method: "POST", Pattern: "/{id}/submit", Handler: h.Submit},
			{Method: "GET", Pattern: "/{id}/validation", Handler: h.Validation},
		},
	}
}

// Advance applies optional draft content and moves the review forward one step.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(flow *Workflow) error {
		return flow.Advance(r.Context())
	})
}

// Retreat applies optional draft content and moves the review back one step.
func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(flow *Workflow) error {
		return flow.Retreat(r.Context())
	})
}

// Save applies optional draft content and persists the draft without advancing.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(flow *Workflow) error {
		return flow.SaveDraft(r.Context())
	})
}

// Submit applies optional draft content, validates every step, scores the
// review, and persists it as submitted.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(flow *Workflow) error {
		return flow.Submit(r.Context())
	})
}

// Validation reports the current step's outstanding gate failures without
// mutating the draft.
func (h *Handler) Validation(w http.ResponseWriter, r *http.Request) {
	review, scheme, ok := h.load(w, r)
	if !ok {
		return
	}

	failures := ValidateStep(review.CurrentStep, review, scheme)
	handlers.RespondJSON(w, http.StatusOK, struct {
		Step     int       `json:"step"`
		Failures []Failure `json:"failures"`
	}{
		Step:     review.CurrentStep,
		Failures: failures,
	})
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	run func(flow *Workflow) error,
) {
	review, scheme, ok := h.load(w, r)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Content != nil {
		req.Content.Apply(review)
	}

	flow, err := New(h.reviews, scheme, review, auth.RoleFromContext(r.Context()), h.submitRoles, h.logger)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := run(flow); err != nil {
		var blocked *BlockedError
		if errors.As(err, &blocked) {
			handlers.RespondErrorDetails(w, h.logger, MapHTTPStatus(err), err, blocked)
			return
		}

		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StateResponse{
		Review:      flow.Draft(),
		CurrentStep: flow.CurrentStep(),
		TotalSteps:  scheme.TotalSteps(),
	})
}

func (h *Handler) load(
	w http.ResponseWriter,
	r *http.Request,
) (*reviews.Review, *schemes.Scheme, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, reviews.ErrNotFound)
		return nil, nil, false
	}

	review, err := h.reviews.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, reviews.MapHTTPStatus(err), err)
		return nil, nil, false
	}

	scheme, err := h.schemes.FindByKey(r.Context(), review.SchemeKey)
	if err != nil {
		handlers.RespondError(w, h.logger, schemes.MapHTTPStatus(err), err)
		return nil, nil, false
	}

	return review, scheme, true
}
