// Package listquery provides a generic in-memory search, filter, sort, and
// paginate engine for tabular record views. An Engine is configured once
// with named field accessors and a searchable-field set, then queried with
// a declarative Spec; queries have no side effects and are deterministic
// for a given records snapshot.
package listquery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Direction controls sort ordering.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// FilterAll is the sentinel filter value that matches every record;
// filters carrying it (or an empty value) are ignored.
const FilterAll = "all"

// Spec is a single query: free-text term, equality filters, sort key and
// direction, and 1-based pagination. All predicates are ANDed.
type Spec struct {
	Term          string            `json:"term"`
	Filters       map[string]string `json:"filters,omitempty"`
	SortField     string            `json:"sort_field,omitempty"`
	SortDirection Direction         `json:"sort_direction,omitempty"`
	PageSize      int               `json:"page_size"`
	PageIndex     int               `json:"page_index"`
}

// Result holds one page of records along with totals for the full
// filtered set.
type Result[T any] struct {
	Page       []T `json:"page"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Engine queries record collections against declared fields.
type Engine[T any] struct {
	accessors  map[string]func(T) any
	searchable []string
}

// New creates an empty Engine. Declare fields with Field and mark search
// targets with Searchable before querying.
func New[T any]() *Engine[T] {
	return &Engine[T]{
		accessors: make(map[string]func(T) any),
	}
}

// Field declares a named field with its accessor. Fields referenced by
// filters and sorts must be declared; accessors should return scalar
// values (string, numeric, or time.Time).
func (e *Engine[T]) Field(name string, accessor func(T) any) *Engine[T] {
	e.accessors[name] = accessor
	return e
}

// Searchable marks declared fields as targets for free-text term matching.
func (e *Engine[T]) Searchable(names ...string) *Engine[T] {
	e.searchable = append(e.searchable, names...)
	return e
}

// Query filters, sorts, and paginates records according to spec.
// A page index beyond the final page yields an empty page, not an error.
func (e *Engine[T]) Query(records []T, spec Spec) (*Result[T], error) {
	if err := e.validate(spec); err != nil {
		return nil, err
	}

	filtered := e.filter(records, spec)

	if spec.SortField != "" {
		e.sort(filtered, spec)
	}

	total := len(filtered)
	totalPages := total / spec.PageSize
	if total%spec.PageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	start := (spec.PageIndex - 1) * spec.PageSize
	end := start + spec.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := make([]T, end-start)
	copy(page, filtered[start:end])

	return &Result[T]{
		Page:       page,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func (e *Engine[T]) validate(spec Spec) error {
	if spec.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, spec.PageSize)
	}
	if spec.PageIndex < 1 {
		return fmt.Errorf("%w: page index %d", ErrInvalidSpec, spec.PageIndex)
	}
	if spec.SortField != "" {
		if _, ok := e.accessors[spec.SortField]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, spec.SortField)
		}
	}
	for field, value := range spec.Filters {
		if ignoredFilter(value) {
			continue
		}
		if _, ok := e.accessors[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (e *Engine[T]) filter(records []T, spec Spec) []T {
	term := strings.ToLower(strings.TrimSpace(spec.Term))

	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if term != "" && !e.matchesTerm(record, term) {
			continue
		}
		if !e.matchesFilters(record, spec.Filters) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func (e *Engine[T]) matchesTerm(record T, term string) bool {
	for _, name := range e.searchable {
		accessor, ok := e.accessors[name]
		if !ok {
			continue
		}
		value := strings.ToLower(stringify(accessor(record)))
		if strings.Contains(value, term) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) matchesFilters(record T, filters map[string]string) bool {
	for field, want := range filters {
		if ignoredFilter(want) {
			continue
		}
		if stringify(e.accessors[field](record)) != want {
			return false
		}
	}
	return true
}

func (e *Engine[T]) sort(records []T, spec Spec) {
	accessor := e.accessors[spec.SortField]

	slices.SortStableFunc(records, func(a, b T) int {
		result := compare(accessor(a), accessor(b))
		if spec.SortDirection == Descending {
			return -result
		}
		return result
	})
}

func ignoredFilter(value string) bool {
	return value == "" || value == FilterAll
}

// compare orders two field values: times by instant, numerics by value,
// everything else by lexicographic string order.
func compare(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(stringify(a), stringify(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
