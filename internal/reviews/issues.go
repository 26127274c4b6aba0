package reviews

import (
	"net/url"
	"strconv"

	"github.com/camber-build/camber/pkg/listquery"
	"github.com/camber-build/camber/pkg/pagination"
)

// issueEngine queries the issues recorded on a single review. Issues are
// stored inline on the review record rather than as table rows, so listing
// them goes through the in-memory engine instead of SQL.
var issueEngine = listquery.New[Issue]().
	Field("description", func(i Issue) any { return i.Description }).
	Field("severity", func(i Issue) any { return i.Severity }).
	Searchable("description")

// QueryIssues filters, sorts, and paginates a review's issues.
func QueryIssues(issues []Issue, spec listquery.Spec) (*listquery.Result[Issue], error) {
	return issueEngine.Query(issues, spec)
}

// IssueSpecFromQuery builds an issue query spec from URL query parameters,
// falling back to the configured default page size.
func IssueSpecFromQuery(values url.Values, cfg pagination.Config) listquery.Spec {
	spec := listquery.Spec{
		Term:          values.Get("term"),
		SortField:     values.Get("sort"),
		SortDirection: listquery.Direction(values.Get("dir")),
		PageSize:      cfg.DefaultPageSize,
		PageIndex:     1,
	}

	if severity := values.Get("severity"); severity != "" {
		spec.Filters = map[string]string{"severity": severity}
	}

	if v := values.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			spec.PageSize = min(n, cfg.MaxPageSize)
		}
	}
	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			spec.PageIndex = n
		}
	}

	return spec
}
