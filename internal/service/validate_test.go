package service

import (
	"strings"
	"testing"

	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

func validValidateCollection() pocketbase.Collection {
	return pocketbase.Collection{
		Name: "articles",
		Type: "base",
		Fields: []pocketbase.Field{
			{Name: "title", Type: "text", Required: true},
			{Name: "views", Type: "number"},
		},
	}
}

func TestValidateCollection_Valid(t *testing.T) {
	if got := ValidateCollection(validValidateCollection()); len(got) != 0 {
		t.Errorf("ValidateCollection() = %v, want no violations", got)
	}
}

func TestValidateCollection_NameRules(t *testing.T) {
	tests := []struct {
		name     string
		colName  string
		wantCode string
	}{
		{"empty", "", "required"},
		{"too short", "ab", "invalid_length"},
		{"too long", strings.Repeat("a", 101), "invalid_length"},
		{"leading digit", "1abc", "invalid_format"},
		{"dash", "my-things", "invalid_format"},
		{"reserved", "_superusers", "reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := validValidateCollection()
			col.Name = tt.colName

			got := ValidateCollection(col)
			if len(got) == 0 {
				t.Fatal("expected a violation")
			}
			if got[0].Field != "name" || got[0].Code != tt.wantCode {
				t.Errorf("violation = %+v, want name/%s", got[0], tt.wantCode)
			}
		})
	}
}

func TestValidateCollection_ReservedName(t *testing.T) {
	// A reserved name that also satisfies the identifier pattern.
	col := validValidateCollection()
	col.Name = "users"
	if got := ValidateCollection(col); len(got) != 0 {
		t.Errorf("plain %q should be allowed: %v", col.Name, got)
	}
}

func TestValidateCollection_FieldRules(t *testing.T) {
	col := validValidateCollection()
	col.Fields = []pocketbase.Field{
		{Name: "title", Type: "text"},
		{Name: "title", Type: "text"},      // duplicate
		{Name: "Title", Type: "text"},      // different case: distinct
		{Name: "9bad", Type: "text"},       // bad name
		{Name: "extra", Type: "geoPoint2"}, // bad type
	}

	got := ValidateCollection(col)

	codes := make(map[string]bool)
	for _, v := range got {
		codes[v.Code] = true
	}
	for _, want := range []string{"duplicate", "invalid_format", "invalid_value"} {
		if !codes[want] {
			t.Errorf("missing violation code %q in %v", want, got)
		}
	}
	// "Title" differs from "title" by case and must not be flagged.
	for _, v := range got {
		if v.Code == "duplicate" && strings.Contains(v.Message, `"Title"`) {
			t.Errorf("case-sensitive uniqueness violated: %v", v)
		}
	}
}

// The contract is "report everything wrong in one pass": N independent
// violations produce N distinct entries in a single result.
func TestValidateCollection_Completeness(t *testing.T) {
	col := pocketbase.Collection{
		Name: "1x", // invalid format (and short, but one code per field check)
		Type: "pile",
		Fields: []pocketbase.Field{
			{Name: "a_field", Type: "text"},
			{Name: "a_field", Type: "sparkles"},
		},
	}

	got := ValidateCollection(col)
	if len(got) < 4 {
		t.Fatalf("got %d violations %v, want at least 4 (name, type, duplicate, field type)", len(got), got)
	}
}

func TestValidateCollection_ViewType(t *testing.T) {
	t.Run("requires query", func(t *testing.T) {
		col := pocketbase.Collection{Name: "stats", Type: "view"}
		got := ValidateCollection(col)
		if len(got) != 1 || got[0].Field != "options.query" {
			t.Errorf("ValidateCollection() = %v, want options.query violation", got)
		}
	})

	t.Run("skips field checks entirely", func(t *testing.T) {
		col := pocketbase.Collection{
			Name:    "stats",
			Type:    "view",
			Options: map[string]any{"query": "SELECT id FROM posts"},
			Fields: []pocketbase.Field{
				{Name: "9bad", Type: "nonsense"},
			},
		}
		if got := ValidateCollection(col); len(got) != 0 {
			t.Errorf("view schemas must skip field validation, got %v", got)
		}
	})
}
