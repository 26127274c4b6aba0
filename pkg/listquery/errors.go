package listquery

import "errors"

// Sentinel errors for malformed query specs.
var (
	// ErrInvalidSpec indicates a query spec that cannot be evaluated.
	ErrInvalidSpec = errors.New("invalid query spec")
	// ErrInvalidPageSize indicates a non-positive page size.
	ErrInvalidPageSize = errors.New("page size must be positive")
	// ErrUnknownField indicates a filter or sort field that was never declared.
	ErrUnknownField = errors.New("unknown field")
)
