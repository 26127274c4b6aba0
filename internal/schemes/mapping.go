package schemes

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/camber-build/camber/pkg/query"
	"github.com/camber-build/camber/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "schemes", "s").
	Project("id", "ID").
	Project("key", "Key").
	Project("name", "Name").
	Project("categories", "Categories").
	Project("steps", "Steps").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Key"}

// Filters contains optional filtering criteria for scheme queries.
// Nil fields are ignored.
type Filters struct {
	Key *string `json:"key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Key", f.Key)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("key"); k != "" {
		f.Key = &k
	}

	return f
}

func scanScheme(s repository.Scanner) (Scheme, error) {
	var scheme Scheme
	var categoriesRaw, stepsRaw []byte

	err := s.Scan(
		&scheme.ID,
		&scheme.Key,
		&scheme.Name,
		&categoriesRaw,
		&stepsRaw,
		&scheme.CreatedAt,
	)

	if err != nil {
		return scheme, err
	}

	if len(categoriesRaw) > 0 {
		if err := json.Unmarshal(categoriesRaw, &scheme.Categories); err != nil {
			return scheme, fmt.Errorf("unmarshal categories: %w", err)
		}
	}
	if len(stepsRaw) > 0 {
		if err := json.Unmarshal(stepsRaw, &scheme.Steps); err != nil {
			return scheme, fmt.Errorf("unmarshal steps: %w", err)
		}
	}

	return scheme, nil
}
