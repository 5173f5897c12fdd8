package service

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

func fileRecord() pocketbase.Record {
	return pocketbase.Record{
		"id":             "rec1",
		"collectionId":   "col1",
		"collectionName": "posts",
		"avatar":         "photo.png",
		"gallery":        []any{"a.jpg", "b.jpg"},
		"title":          "not a file",
	}
}

func TestFiles_URLFromField(t *testing.T) {
	client := pocketbase.New("http://127.0.0.1:8090")
	svc := NewFiles(log.NewNop())

	got, err := svc.URL(client, FileURLRequest{Record: fileRecord(), Field: "gallery"})
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if got != "http://127.0.0.1:8090/api/files/col1/rec1/a.jpg" {
		t.Errorf("URL() = %q, want the first filename of the field", got)
	}
}

func TestFiles_URLExplicitFilenameWins(t *testing.T) {
	client := pocketbase.New("http://127.0.0.1:8090")
	svc := NewFiles(log.NewNop())

	got, err := svc.URL(client, FileURLRequest{Record: fileRecord(), Filename: "photo.png", Field: "gallery"})
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if !strings.HasSuffix(got, "/photo.png") {
		t.Errorf("URL() = %q, want the explicit filename", got)
	}
}

func TestFiles_URLWithTokenAndThumb(t *testing.T) {
	client := pocketbase.New("http://127.0.0.1:8090")
	client.SetCredential(pocketbase.Credential{Token: "tok-123"})
	svc := NewFiles(log.NewNop())

	got, err := svc.URL(client, FileURLRequest{
		Record:    fileRecord(),
		Filename:  "photo.png",
		Thumb:     "100x100",
		WithToken: true,
	})
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", got, err)
	}
	q := parsed.Query()
	if q.Get("token") != "tok-123" || q.Get("thumb") != "100x100" {
		t.Errorf("query = %v, want token and thumb embedded", q)
	}
}

func TestFiles_URLWithTokenButNoneActive(t *testing.T) {
	client := pocketbase.New("http://127.0.0.1:8090")
	svc := NewFiles(log.NewNop())

	got, err := svc.URL(client, FileURLRequest{Record: fileRecord(), Filename: "photo.png", WithToken: true})
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if strings.Contains(got, "token=") {
		t.Errorf("URL() = %q, must not embed an empty token", got)
	}
}

func TestFiles_URLMissingFilename(t *testing.T) {
	client := pocketbase.New("http://127.0.0.1:8090")
	svc := NewFiles(log.NewNop())

	_, err := svc.URL(client, FileURLRequest{Record: fileRecord(), Field: "missing"})
	var classified *pberr.Error
	if !errors.As(err, &classified) || classified.Code != pberr.CodeValidationError {
		t.Errorf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestFiles_FileFields(t *testing.T) {
	svc := NewFiles(log.NewNop())
	got := svc.FileFields(fileRecord())
	want := []string{"avatar", "gallery"}
	if len(got) != len(want) {
		t.Fatalf("FileFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FileFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFiles_IsValidFileURL(t *testing.T) {
	client := pocketbase.New("http://127.0.0.1:8090")
	svc := NewFiles(log.NewNop())

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"valid", "http://127.0.0.1:8090/api/files/col1/rec1/a.jpg", true},
		{"wrong origin", "http://evil.example/api/files/col1/rec1/a.jpg", false},
		{"wrong path", "http://127.0.0.1:8090/api/records/col1/rec1/a.jpg", false},
		{"garbage", "::not-a-url", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsValidFileURL(client, tt.url); got != tt.want {
				t.Errorf("IsValidFileURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
