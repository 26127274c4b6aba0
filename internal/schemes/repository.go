package schemes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/camber-build/camber/pkg/pagination"
	"github.com/camber-build/camber/pkg/query"
	"github.com/camber-build/camber/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a scheme repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "schemes"),
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
) (*pagination.PageResult[Scheme], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Key", "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count schemes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanScheme)
	if err != nil {
		return nil, fmt.Errorf("query schemes: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context) ([]Scheme, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanScheme)
	if err != nil {
		return nil, fmt.Errorf("query schemes: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Scheme, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanScheme)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) FindByKey(ctx context.Context, key string) (*Scheme, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Key", key)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanScheme)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Scheme, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	categoriesJSON, err := json.Marshal(cmd.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}
	stepsJSON, err := json.Marshal(cmd.Steps)
	if err != nil {
		return nil, fmt.Errorf("marshal steps: %w", err)
	}

	q := `
		INSERT INTO schemes(id, key, name, categories, steps)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, key, name, categories, steps, created_at`

	insertArgs := []any{uuid.New(), cmd.Key, cmd.Name, categoriesJSON, stepsJSON}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Scheme, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanScheme)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("scheme created", "id", s.ID, "key", s.Key)
	return &s, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	scheme, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews WHERE scheme_key = $1", scheme.Key)
		if err := row.Scan(&count); err != nil {
			return struct{}{}, fmt.Errorf("count scheme references: %w", err)
		}
		if count > 0 {
			return struct{}{}, ErrInUse
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM schemes WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("scheme deleted", "id", id, "key", scheme.Key)
	return nil
}
