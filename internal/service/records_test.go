package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

func TestRecords_ListAppliesPagingDefaults(t *testing.T) {
	var gotPage, gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("perPage")
		fmt.Fprint(w, `{"page":1,"perPage":30,"totalItems":0,"totalPages":0,"items":[]}`)
	}))
	defer srv.Close()

	svc := NewRecords(log.NewNop())
	if _, err := svc.List(context.Background(), pocketbase.New(srv.URL), "posts", pocketbase.ListOptions{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotPage != "1" || gotPerPage != "30" {
		t.Errorf("paging = page %s perPage %s, want defaults 1/30", gotPage, gotPerPage)
	}
}

func TestRecords_ListPassesFilterThrough(t *testing.T) {
	const filter = `status = "active" && created >= "2024-01-01"`
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("filter")
		fmt.Fprint(w, `{"page":2,"perPage":5,"totalItems":0,"totalPages":0,"items":[]}`)
	}))
	defer srv.Close()

	svc := NewRecords(log.NewNop())
	_, err := svc.List(context.Background(), pocketbase.New(srv.URL), "posts", pocketbase.ListOptions{
		Filter:  filter,
		Page:    2,
		PerPage: 5,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got != filter {
		t.Errorf("filter = %q, want untouched %q", got, filter)
	}
}

func TestRecords_GetAllCollapsesPaging(t *testing.T) {
	// Three pages of two records each; GetAll must drain them into one
	// result that reports a single page.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprintf(w, `{"page":%d,"perPage":2,"totalItems":6,"totalPages":3,"items":[{"id":"r%d-a"},{"id":"r%d-b"}]}`,
			page, page, page)
	}))
	defer srv.Close()

	svc := NewRecords(log.NewNop())
	result, err := svc.GetAll(context.Background(), pocketbase.New(srv.URL), "posts", pocketbase.ListOptions{})
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(result.Items) != 6 {
		t.Fatalf("items = %d, want 6", len(result.Items))
	}
	if result.TotalPages != 1 || result.Page != 1 {
		t.Errorf("paging = page %d of %d, want collapsed to a single page", result.Page, result.TotalPages)
	}
}

func TestRecords_CRUD(t *testing.T) {
	store := map[string]pocketbase.Record{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var data map[string]any
			if err := decodeJSON(r, &data); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			data["id"] = "rec1"
			store["rec1"] = data
			writeJSON(w, data)
		case http.MethodPatch:
			var data map[string]any
			if err := decodeJSON(r, &data); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			rec := store["rec1"]
			for k, v := range data {
				rec[k] = v
			}
			writeJSON(w, rec)
		case http.MethodGet:
			rec, ok := store["rec1"]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"status":404,"message":"The requested resource wasn't found."}`)
				return
			}
			writeJSON(w, rec)
		case http.MethodDelete:
			delete(store, "rec1")
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	svc := NewRecords(log.NewNop())
	client := pocketbase.New(srv.URL)
	ctx := context.Background()

	created, err := svc.Create(ctx, client, "posts", map[string]any{"title": "hello"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID() != "rec1" {
		t.Errorf("ID() = %q, want rec1", created.ID())
	}

	updated, err := svc.Update(ctx, client, "posts", "rec1", map[string]any{"title": "hi"}, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated["title"] != "hi" {
		t.Errorf("title = %v, want hi", updated["title"])
	}

	if err := svc.Delete(ctx, client, "posts", "rec1", nil); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = svc.Get(ctx, client, "posts", "rec1", pocketbase.ListOptions{})
	var classified *pberr.Error
	if !errors.As(err, &classified) || classified.Code != pberr.CodeNotFound {
		t.Errorf("Get() after delete error = %v, want NOT_FOUND", err)
	}
}

func TestRecords_BackendValidationIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":400,"message":"Failed to create record.","data":{"title":{"code":"validation_required","message":"Missing required value."}}}`)
	}))
	defer srv.Close()

	svc := NewRecords(log.NewNop())
	_, err := svc.Create(context.Background(), pocketbase.New(srv.URL), "posts", map[string]any{}, nil)

	var classified *pberr.Error
	if !errors.As(err, &classified) {
		t.Fatalf("error = %T, want *pberr.Error", err)
	}
	if classified.Code != pberr.CodeValidationError {
		t.Errorf("Code = %s, want VALIDATION_ERROR", classified.Code)
	}
	if classified.Details == nil || len(classified.Details.Fields) != 1 || classified.Details.Fields[0].Field != "title" {
		t.Errorf("Details = %+v, want the backend field violation", classified.Details)
	}
}

func TestRecords_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refused from here on

	svc := NewRecords(log.NewNop())
	_, err := svc.List(context.Background(), pocketbase.New(srv.URL), "posts", pocketbase.ListOptions{})

	var classified *pberr.Error
	if !errors.As(err, &classified) || classified.Code != pberr.CodeNetworkError {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}
