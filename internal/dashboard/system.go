package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
)

// System defines the public contract for dashboard metrics.
type System interface {
	Handler() *Handler
	Metrics(ctx context.Context, window Window, groupBy GroupBy) (*Metrics, error)
}

type aggregator struct {
	reviews reviews.System
	schemes schemes.System
	logger  *slog.Logger
	handler *Handler
}

// New creates a dashboard System over the review and scheme systems.
func New(rev reviews.System, sch schemes.System, logger *slog.Logger) System {
	logger = logger.With("system", "dashboard")

	a := &aggregator{
		reviews: rev,
		schemes: sch,
		logger:  logger,
	}
	a.handler = NewHandler(a, logger)

	return a
}

func (a *aggregator) Handler() *Handler {
	return a.handler
}

// Metrics loads review records and scheme definitions concurrently and
// aggregates them into a snapshot for the requested window and grouping
// dimension.
func (a *aggregator) Metrics(ctx context.Context, window Window, groupBy GroupBy) (*Metrics, error) {
	if window.From != nil && window.To != nil && window.To.Before(*window.From) {
		return nil, ErrInvalidWindow
	}
	if groupBy == "" {
		groupBy = GroupByScheme
	}
	if !groupBy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGroupBy, groupBy)
	}

	var (
		records    []reviews.Review
		schemeList []schemes.Scheme
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		records, err = a.reviews.All(groupCtx, window.From, window.To)
		return err
	})
	group.Go(func() error {
		var err error
		schemeList, err = a.schemes.All(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	metrics := Aggregate(records, schemeList, window, groupBy)
	return &metrics, nil
}
