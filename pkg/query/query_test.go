package query_test

import (
	"testing"

	"github.com/camber-build/camber/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "reviews", "r").
		Project("id", "id").
		Project("reviewer_name", "reviewerName").
		Project("created_at", "createdAt")
}

func TestProjectionMap(t *testing.T) {
	pm := testProjection()

	if got := pm.Table(); got != "public.reviews r" {
		t.Errorf("Table() = %q, want %q", got, "public.reviews r")
	}

	if got := pm.Alias(); got != "r" {
		t.Errorf("Alias() = %q, want %q", got, "r")
	}

	if got := pm.Columns(); got != "r.id, r.reviewer_name, r.created_at" {
		t.Errorf("Columns() = %q, want %q", got, "r.id, r.reviewer_name, r.created_at")
	}

	cols := pm.ColumnList()
	if len(cols) != 3 {
		t.Fatalf("ColumnList() length = %d, want 3", len(cols))
	}

	if got := pm.Column("reviewerName"); got != "r.reviewer_name" {
		t.Errorf("Column(reviewerName) = %q, want %q", got, "r.reviewer_name")
	}

	if got := pm.Column("unmapped"); got != "unmapped" {
		t.Errorf("Column(unmapped) = %q, want %q (passthrough)", got, "unmapped")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "reviewerName",
			want:  []query.SortField{{Field: "reviewerName", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-createdAt",
			want:  []query.SortField{{Field: "createdAt", Descending: true}},
		},
		{
			name:  "mixed with whitespace",
			input: "reviewerName, -createdAt",
			want: []query.SortField{
				{Field: "reviewerName", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.Build()

	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args length = %d, want 0", len(args))
	}
}

func TestBuilderBuildCount(t *testing.T) {
	search := "alvarez"
	b := query.NewBuilder(testProjection()).
		WhereContains("reviewerName", &search)

	sql, args := b.BuildCount()

	want := "SELECT COUNT(*) FROM public.reviews r WHERE r.reviewer_name ILIKE $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "%alvarez%" {
		t.Errorf("args = %v, want [%%alvarez%%]", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, _ := b.BuildPage(3, 10)

	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r LIMIT 10 OFFSET 20"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildSingle("id", "abc-123")

	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("args = %v, want [abc-123]", args)
	}
}

func TestBuilderBuildSingleOrNull(t *testing.T) {
	b := query.NewBuilder(testProjection()).
		WhereEquals("reviewerName", "Dana Alvarez")

	sql, args := b.BuildSingleOrNull()

	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.reviewer_name = $1 LIMIT 1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args length = %d, want 1", len(args))
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	t.Run("value present", func(t *testing.T) {
		b := query.NewBuilder(testProjection()).
			WhereEquals("reviewerName", "Dana Alvarez")

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.reviewer_name = $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 || args[0] != "Dana Alvarez" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("nil pointer is no-op", func(t *testing.T) {
		var name *string
		b := query.NewBuilder(testProjection()).
			WhereEquals("reviewerName", name)

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args length = %d, want 0", len(args))
		}
	})
}

func TestBuilderWhereContains(t *testing.T) {
	t.Run("nil is no-op", func(t *testing.T) {
		b := query.NewBuilder(testProjection()).
			WhereContains("reviewerName", nil)

		sql, _ := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("empty string is no-op", func(t *testing.T) {
		empty := ""
		b := query.NewBuilder(testProjection()).
			WhereContains("reviewerName", &empty)

		sql, _ := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})
}

func TestBuilderWhereAtLeastAtMost(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		low := 6.0
		high := 9.0
		b := query.NewBuilder(testProjection()).
			WhereAtLeast("overallScore", &low).
			WhereAtMost("overallScore", &high)

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE overallScore >= $1 AND overallScore <= $2"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 || args[0] != &low || args[1] != &high {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("nil bounds are no-ops", func(t *testing.T) {
		var low, high *float64
		b := query.NewBuilder(testProjection()).
			WhereAtLeast("overallScore", low).
			WhereAtMost("overallScore", high)

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args length = %d, want 0", len(args))
		}
	})
}

func TestBuilderWhereIn(t *testing.T) {
	t.Run("multiple values", func(t *testing.T) {
		b := query.NewBuilder(testProjection()).
			WhereIn("id", []any{"a", "b", "c"})

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.id IN ($1, $2, $3)"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})

	t.Run("empty slice is no-op", func(t *testing.T) {
		b := query.NewBuilder(testProjection()).
			WhereIn("id", []any{})

		sql, _ := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})
}

func TestBuilderWhereNullable(t *testing.T) {
	t.Run("nil produces IS NULL", func(t *testing.T) {
		b := query.NewBuilder(testProjection()).
			WhereNullable("reviewerName", nil)

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.reviewer_name IS NULL"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args length = %d, want 0", len(args))
		}
	})

	t.Run("value produces equality", func(t *testing.T) {
		b := query.NewBuilder(testProjection()).
			WhereNullable("reviewerName", "Dana Alvarez")

		sql, args := b.Build()
		want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.reviewer_name = $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 {
			t.Errorf("args length = %d, want 1", len(args))
		}
	})
}

func TestBuilderWhereSearch(t *testing.T) {
	search := "tower"
	b := query.NewBuilder(testProjection()).
		WhereSearch(&search, "reviewerName", "id")

	sql, args := b.Build()
	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE (r.reviewer_name ILIKE $1 OR r.id ILIKE $2)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "%tower%" || args[1] != "%tower%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	search := "alvarez"
	b := query.NewBuilder(testProjection()).
		WhereEquals("id", "abc-123").
		WhereContains("reviewerName", &search)

	sql, args := b.Build()
	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r WHERE r.id = $1 AND r.reviewer_name ILIKE $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	b := query.NewBuilder(testProjection()).
		OrderByFields([]query.SortField{
			{Field: "reviewerName", Descending: false},
			{Field: "createdAt", Descending: true},
		})

	sql, _ := b.Build()
	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r ORDER BY r.reviewer_name ASC, r.created_at DESC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true})

	sql, _ := b.Build()
	want := "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r ORDER BY r.created_at DESC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}

	b.OrderByFields([]query.SortField{{Field: "reviewerName", Descending: false}})
	sql, _ = b.Build()
	want = "SELECT r.id, r.reviewer_name, r.created_at FROM public.reviews r ORDER BY r.reviewer_name ASC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}
