package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/camber-build/camber/pkg/pagination"
)

// System defines the public contract for review domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Review], error)

	All(ctx context.Context, from, to *time.Time) ([]Review, error)
	Find(ctx context.Context, id uuid.UUID) (*Review, error)
	Create(ctx context.Context, cmd CreateCommand) (*Review, error)
	Save(ctx context.Context, review *Review) error
	Reopen(ctx context.Context, id uuid.UUID) (*Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
