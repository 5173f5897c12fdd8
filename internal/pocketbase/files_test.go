package pocketbase

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func fileTestRecord() Record {
	return Record{
		"id":             "rec1",
		"collectionId":   "col1",
		"collectionName": "posts",
		"created":        "2026-01-01 00:00:00Z",
		"updated":        "2026-01-01 00:00:00Z",
		"title":          "hello",
		"cover":          "cover_abc123.png",
		"gallery":        []any{"a.jpg", "b.webp"},
		"count":          float64(3),
	}
}

func TestFileURL(t *testing.T) {
	c := New("http://127.0.0.1:8090")
	rec := fileTestRecord()

	got, err := c.FileURL(rec, "cover_abc123.png", FileURLOptions{})
	if err != nil {
		t.Fatalf("FileURL() error = %v", err)
	}

	for _, part := range []string{"col1", "rec1", "cover_abc123.png"} {
		if !strings.Contains(got, part) {
			t.Errorf("URL %q missing %q", got, part)
		}
	}
	if _, err := url.Parse(got); err != nil {
		t.Errorf("generated URL does not parse: %v", err)
	}
	if strings.Contains(got, "token=") {
		t.Error("no token requested, URL must not carry one")
	}
}

func TestFileURL_TokenAndThumb(t *testing.T) {
	c := New("http://127.0.0.1:8090")

	got, err := c.FileURL(fileTestRecord(), "cover_abc123.png", FileURLOptions{
		Thumb: "100x100",
		Token: "tok-1",
	})
	if err != nil {
		t.Fatalf("FileURL() error = %v", err)
	}

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parsing URL: %v", err)
	}
	q := parsed.Query()
	if q.Get("thumb") != "100x100" {
		t.Errorf("thumb = %q", q.Get("thumb"))
	}
	if q.Get("token") != "tok-1" {
		t.Errorf("token = %q", q.Get("token"))
	}
}

func TestFileURL_Validation(t *testing.T) {
	c := New("http://127.0.0.1:8090")

	if _, err := c.FileURL(fileTestRecord(), "   ", FileURLOptions{}); !errors.Is(err, ErrNoFilename) {
		t.Errorf("blank filename: error = %v, want ErrNoFilename", err)
	}

	if _, err := c.FileURL(Record{"id": "rec1"}, "a.png", FileURLOptions{}); !errors.Is(err, ErrIncompleteRecord) {
		t.Errorf("no collection: error = %v, want ErrIncompleteRecord", err)
	}

	if _, err := c.FileURL(Record{"collectionId": "c1"}, "a.png", FileURLOptions{}); !errors.Is(err, ErrIncompleteRecord) {
		t.Errorf("no id: error = %v, want ErrIncompleteRecord", err)
	}

	// collectionName alone is an acceptable collection identifier.
	if _, err := c.FileURL(Record{"id": "r", "collectionName": "posts"}, "a.png", FileURLOptions{}); err != nil {
		t.Errorf("collectionName fallback: error = %v", err)
	}
}

func TestIsValidFileURL(t *testing.T) {
	c := New("http://127.0.0.1:8090")

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"valid", "http://127.0.0.1:8090/api/files/col1/rec1/a.png", true},
		{"valid with query", "http://127.0.0.1:8090/api/files/col1/rec1/a.png?thumb=100x100", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"wrong origin", "http://other:8090/api/files/col1/rec1/a.png", false},
		{"wrong scheme", "https://127.0.0.1:8090/api/files/col1/rec1/a.png", false},
		{"wrong path", "http://127.0.0.1:8090/api/records/col1/rec1/a.png", false},
		{"too short", "http://127.0.0.1:8090/api/files/col1/rec1", false},
		{"not a url", "://nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsValidFileURL(tt.raw); got != tt.want {
				t.Errorf("IsValidFileURL(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFileFields(t *testing.T) {
	got := FileFields(fileTestRecord())
	want := []string{"cover", "gallery"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FileFields() = %v, want %v", got, want)
	}
}

func TestFileFields_EdgeValues(t *testing.T) {
	rec := Record{
		"id":       "r1",
		"plain":    "not a file",
		"empty":    "",
		"mixed":    []any{"a.png", 42},
		"noext":    "README",
		"longext":  "file.verylongextension",
		"nested":   map[string]any{"f": "a.png"},
		"emptyArr": []any{},
	}
	if got := FileFields(rec); len(got) != 0 {
		t.Errorf("FileFields() = %v, want none", got)
	}
}
