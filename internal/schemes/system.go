package schemes

import (
	"context"

	"github.com/google/uuid"

	"github.com/camber-build/camber/pkg/pagination"
)

// System defines the public contract for scheme domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Scheme], error)

	All(ctx context.Context) ([]Scheme, error)
	Find(ctx context.Context, id uuid.UUID) (*Scheme, error)
	FindByKey(ctx context.Context, key string) (*Scheme, error)
	Create(ctx context.Context, cmd CreateCommand) (*Scheme, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
