package reviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/camber-build/camber/internal/schemes"
	"github.com/camber-build/camber/pkg/pagination"
	"github.com/camber-build/camber/pkg/query"
	"github.com/camber-build/camber/pkg/repository"
)

type repo struct {
	db         *sql.DB
	schemes    schemes.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a review repository implementing the System interface.
func New(
	db *sql.DB,
	schemeSys schemes.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		schemes:    schemeSys,
		logger:     logger.With("system", "reviews"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Review], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ReviewerName", "Comments", "ReviewType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context, from, to *time.Time) ([]Review, error) {
	qb := query.NewBuilder(projection, query.SortField{Field: "CreatedAt"})

	if from != nil {
		qb.WhereAtLeast("UpdatedAt", *from)
	}
	if to != nil {
		qb.WhereAtMost("UpdatedAt", *to)
	}

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Review, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	review, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &review, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Review, error) {
	scheme, err := r.schemes.FindByKey(ctx, cmd.SchemeKey)
	if err != nil {
		return nil, fmt.Errorf("resolve scheme %s: %w", cmd.SchemeKey, err)
	}

	review := &Review{
		ID:              uuid.New(),
		SchemeKey:       scheme.Key,
		ReviewType:      cmd.ReviewType,
		ProjectStage:    cmd.ProjectStage,
		ReviewerName:    cmd.ReviewerName,
		CurrentStep:     1,
		Status:          StatusDraft,
		Scores:          make(map[string]float64),
		Recommendations: []string{},
		Issues:          []Issue{},
		Attachments:     []string{},
	}

	if err := r.Save(ctx, review); err != nil {
		return nil, err
	}

	r.logger.Info("review draft opened",
		"id", review.ID,
		"scheme", review.SchemeKey,
		"reviewer", review.ReviewerName,
	)
	return review, nil
}

// Save upserts the full review row keyed by ID. Draft saves are
// deliberately permissive: no validation gate runs here, so
// work-in-progress is never lost to an invalid field.
func (r *repo) Save(ctx context.Context, review *Review) error {
	scoresJSON, err := json.Marshal(review.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	recommendationsJSON, err := json.Marshal(review.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	issuesJSON, err := json.Marshal(review.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	attachmentsJSON, err := json.Marshal(review.Attachments)
	if err != nil {
		return fmt.Errorf("marshal attachments: %w", err)
	}

	q := `
		INSERT INTO reviews(
			id, scheme_key, review_type, project_stage, reviewer_name,
			current_step, status, scores, comments, recommendations,
			issues, attachments, overall_score, score_label, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			review_type = EXCLUDED.review_type,
			project_stage = EXCLUDED.project_stage,
			reviewer_name = EXCLUDED.reviewer_name,
			current_step = EXCLUDED.current_step,
			status = EXCLUDED.status,
			scores = EXCLUDED.scores,
			comments = EXCLUDED.comments,
			recommendations = EXCLUDED.recommendations,
			issues = EXCLUDED.issues,
			attachments = EXCLUDED.attachments,
			overall_score = EXCLUDED.overall_score,
			score_label = EXCLUDED.score_label,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = NOW()
		RETURNING id, scheme_key, review_type, project_stage, reviewer_name,
				  current_step, status, scores, comments, recommendations,
				  issues, attachments, overall_score, score_label,
				  created_at, updated_at, submitted_at`

	args := []any{
		review.ID,
		review.SchemeKey,
		review.ReviewType,
		review.ProjectStage,
		review.ReviewerName,
		review.CurrentStep,
		review.Status,
		scoresJSON,
		review.Comments,
		recommendationsJSON,
		issuesJSON,
		attachmentsJSON,
		review.OverallScore,
		review.ScoreLabel,
		review.SubmittedAt,
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		return repository.QueryOne(ctx, tx, q, args, scanReview)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	*review = saved
	return nil
}

func (r *repo) Reopen(ctx context.Context, id uuid.UUID) (*Review, error) {
	submitted, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !submitted.Submitted() {
		return nil, ErrNotSubmitted
	}

	seeded := submitted.Reseed()
	if err := r.Save(ctx, seeded); err != nil {
		return nil, err
	}

	r.logger.Info("review reopened",
		"id", seeded.ID,
		"source", submitted.ID,
	)
	return seeded, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM reviews WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review deleted", "id", id)
	return nil
}
