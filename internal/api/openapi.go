package api

import (
	"fmt"
	"net/http"

	"github.com/camber-build/camber/internal/config"
	"github.com/camber-build/camber/pkg/openapi"
)

// buildSpec assembles the OpenAPI 3.1 document for the Camber API.
// Paths are expressed relative to the API base path since the module
// strips the prefix before routing.
func buildSpec(cfg *config.Config) (*openapi.Spec, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Scheme": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"key":        {Type: "string", Example: "constructability"},
				"name":       {Type: "string"},
				"categories": {Type: "array", Items: openapi.SchemaRef("Category")},
				"steps":      {Type: "array", Items: openapi.SchemaRef("Step")},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"Category": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":         {Type: "string"},
				"weight":      {Type: "number", Description: "Percentage weight; weights across a scheme sum to 100"},
				"description": {Type: "string"},
			},
		},
		"Step": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":            {Type: "string"},
				"kind":            {Type: "string", Enum: []any{"fields", "scoring", "comments", "confirm"}},
				"required_fields": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Review": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"scheme_key":    {Type: "string"},
				"review_type":   {Type: "string"},
				"project_stage": {Type: "string"},
				"reviewer_name": {Type: "string"},
				"current_step":  {Type: "integer"},
				"status":        {Type: "string", Enum: []any{"draft", "submitted"}},
				"scores":        {Type: "object", Description: "Raw category scores keyed by category"},
				"overall_score": {Type: "number"},
				"score_label":   {Type: "string"},
			},
		},
		"Attachment": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"review_id":    {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer"},
			},
		},
		"Metrics": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_count":     {Type: "integer"},
				"completed_count": {Type: "integer"},
				"completion_rate": {Type: "number", Description: "Submitted share of records, 0 to 1"},
				"average_score":   {Type: "number"},
				"trend_pct":       {Type: "number"},
			},
		},
	})

	spec.Components.AddResponses(map[string]*openapi.Response{
		"Blocked": {
			Description: "Transition blocked by step validation",
			Content: map[string]*openapi.MediaType{
				"application/json": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"error":   {Type: "string"},
							"details": {Type: "object"},
						},
					},
				},
			},
		},
	})

	addSchemePaths(spec)
	addReviewPaths(spec)
	addWorkflowPaths(spec)
	addAttachmentPaths(spec)
	addDashboardPaths(spec)

	return spec, nil
}

func addSchemePaths(spec *openapi.Spec) {
	spec.Paths["/schemes"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List scoring schemes",
			Tags:    []string{"schemes"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated scheme list", "Scheme"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Register a scoring scheme",
			Tags:        []string{"schemes"},
			RequestBody: openapi.RequestBodyJSON("Scheme", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created scheme", "Scheme"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/schemes/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a scheme",
			Tags:       []string{"schemes"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Scheme ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Scheme", "Scheme"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete an unreferenced scheme",
			Tags:       []string{"schemes"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Scheme ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addReviewPaths(spec *openapi.Spec) {
	spec.Paths["/reviews"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List reviews",
			Tags:    []string{"reviews"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("status", "string", "Filter by status; \"all\" disables the filter", false),
				openapi.QueryParam("scheme_key", "string", "Filter by scheme", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated review list", "Review"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Open a review draft",
			Tags:        []string{"reviews"},
			RequestBody: openapi.RequestBodyJSON("Review", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created draft", "Review"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/reviews/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a review",
			Tags:       []string{"reviews"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Review", "Review"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Replace draft content",
			Tags:        []string{"reviews"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			RequestBody: openapi.RequestBodyJSON("Review", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated draft", "Review"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a review",
			Tags:       []string{"reviews"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/reviews/{id}/issues"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Query a review's recorded issues",
			Tags:    []string{"reviews"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Review ID"),
				openapi.QueryParam("term", "string", "Free-text search over issue descriptions", false),
				openapi.QueryParam("severity", "string", "Filter by severity; \"all\" disables the filter", false),
				openapi.QueryParam("sort", "string", "Sort field: description or severity", false),
				openapi.QueryParam("dir", "string", "Sort direction: asc or desc", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated issue list"},
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/reviews/{id}/reopen"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Reseed a draft from a submitted review",
			Description: "Submitted reviews are immutable; edits continue in a fresh draft seeded with the submitted content.",
			Tags:        []string{"reviews"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Seeded draft", "Review"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addWorkflowPaths(spec *openapi.Spec) {
	for _, transition := range []struct {
		path    string
		summary string
	}{
		{"/reviews/{id}/advance", "Advance to the next step"},
		{"/reviews/{id}/retreat", "Return to the previous step"},
		{"/reviews/{id}/save", "Save the draft without advancing"},
		{"/reviews/{id}/submit", "Validate all steps, score, and submit"},
	} {
		spec.Paths[transition.path] = &openapi.PathItem{
			Post: &openapi.Operation{
				Summary:    transition.summary,
				Tags:       []string{"workflow"},
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Workflow state", "Review"),
					403: {Description: "Caller role not permitted"},
					409: openapi.ResponseRef("Conflict"),
					422: openapi.ResponseRef("Blocked"),
				},
			},
		}
	}
}

func addAttachmentPaths(spec *openapi.Spec) {
	spec.Paths["/attachments"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List attachments",
			Tags:    []string{"attachments"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("review_id", "string", "Filter by owning review", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated attachment list", "Attachment"),
			},
		},
		Post: &openapi.Operation{
			Summary: "Upload an attachment",
			Tags:    []string{"attachments"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Registered attachment", "Attachment"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/attachments/{id}/content"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download attachment bytes",
			Tags:       []string{"attachments"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Attachment ID")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Attachment bytes"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addDashboardPaths(spec *openapi.Spec) {
	spec.Paths["/dashboard/metrics"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Aggregate review metrics",
			Tags:    []string{"dashboard"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("from", "string", "Window start (RFC 3339)", false),
				openapi.QueryParam("to", "string", "Window end (RFC 3339)", false),
				openapi.QueryParam("group_by", "string", "Grouping dimension: scheme, stage, or reviewer", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Metrics snapshot", "Metrics"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func registerSpec(mux *http.ServeMux, cfg *config.Config) error {
	spec, err := buildSpec(cfg)
	if err != nil {
		return fmt.Errorf("build openapi spec: %w", err)
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
	return nil
}
