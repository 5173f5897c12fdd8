package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// fakeCollectionBackend keeps collection definitions in memory and
// counts requests, which lets tests assert that a privilege gate
// short-circuited before the network.
type fakeCollectionBackend struct {
	requests atomic.Int64
	byName   map[string]pocketbase.Collection
}

func newFakeCollectionBackend(t *testing.T) (*fakeCollectionBackend, *httptest.Server) {
	t.Helper()
	backend := &fakeCollectionBackend{byName: make(map[string]pocketbase.Collection)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backend.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/collections":
			var col pocketbase.Collection
			if err := decodeJSON(r, &col); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			col.ID = "id_" + col.Name
			backend.byName[col.Name] = col
			writeJSON(w, col)

		case r.Method == http.MethodGet && len(r.URL.Path) > len("/api/collections/"):
			name := r.URL.Path[len("/api/collections/"):]
			col, ok := backend.byName[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"status":404,"message":"The requested resource wasn't found."}`)
				return
			}
			writeJSON(w, col)

		case r.Method == http.MethodDelete:
			name := r.URL.Path[len("/api/collections/"):]
			delete(backend.byName, name)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return backend, srv
}

func TestCollections_RoundTrip(t *testing.T) {
	_, srv := newFakeCollectionBackend(t)
	client := pocketbase.New(srv.URL)
	svc := NewCollections(log.NewNop())
	ctx := context.Background()

	def := pocketbase.Collection{
		Name: "articles",
		Type: "base",
		Fields: []pocketbase.Field{
			{Name: "title", Type: "text", Required: true},
			{Name: "body", Type: "editor"},
		},
	}

	created, err := svc.Create(ctx, client, def, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, client, "articles", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Round-trip preserves the field names and types.
	if len(got.Fields) != len(created.Fields) {
		t.Fatalf("fields = %d, want %d", len(got.Fields), len(created.Fields))
	}
	for i, f := range got.Fields {
		if f.Name != def.Fields[i].Name || f.Type != def.Fields[i].Type {
			t.Errorf("field %d = %+v, want %+v", i, f, def.Fields[i])
		}
	}

	// Delete, then retrieval must classify as NOT_FOUND.
	if err := svc.Delete(ctx, client, "articles", nil); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = svc.Get(ctx, client, "articles", nil)
	var classified *pberr.Error
	if !errors.As(err, &classified) || classified.Code != pberr.CodeNotFound {
		t.Errorf("Get() after delete error = %v, want NOT_FOUND", err)
	}
}

func TestCollections_ValidationBlocksNetwork(t *testing.T) {
	backend, srv := newFakeCollectionBackend(t)
	client := pocketbase.New(srv.URL)
	svc := NewCollections(log.NewNop())

	bad := pocketbase.Collection{
		Name: "1x",
		Type: "pile",
		Fields: []pocketbase.Field{
			{Name: "f", Type: "text"},
			{Name: "f", Type: "nope"},
		},
	}

	_, err := svc.Create(context.Background(), client, bad, nil)

	var classified *pberr.Error
	if !errors.As(err, &classified) {
		t.Fatalf("error = %T, want *pberr.Error", err)
	}
	if classified.Code != pberr.CodeValidationError {
		t.Errorf("Code = %s, want VALIDATION_ERROR", classified.Code)
	}
	if classified.Details == nil || len(classified.Details.Fields) < 4 {
		t.Errorf("Details = %+v, want every violation reported at once", classified.Details)
	}
	if backend.requests.Load() != 0 {
		t.Error("validation failures must not reach the backend")
	}
}

func TestCollections_PrivilegeGate(t *testing.T) {
	backend, srv := newFakeCollectionBackend(t)
	client := pocketbase.New(srv.URL)
	svc := NewCollections(log.NewNop())
	ctx := context.Background()

	// A login established this credential is NOT an administrator.
	client.SetCredential(pocketbase.Credential{
		Token:    "user-token",
		Identity: &pocketbase.Identity{ID: "u1", Collection: "users"},
	})

	ops := map[string]func() error{
		"create": func() error {
			_, err := svc.Create(ctx, client, validCollection(), nil)
			return err
		},
		"update": func() error {
			_, err := svc.Update(ctx, client, "articles", pocketbase.Collection{Name: "renamed"}, nil)
			return err
		},
		"delete": func() error {
			return svc.Delete(ctx, client, "articles", nil)
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			var classified *pberr.Error
			if !errors.As(err, &classified) || classified.Code != pberr.CodeForbidden {
				t.Fatalf("error = %v, want FORBIDDEN", err)
			}
		})
	}
	if backend.requests.Load() != 0 {
		t.Error("known non-admin mutations must fail without a backend call")
	}
}

func TestCollections_UnverifiedTokenFallsThrough(t *testing.T) {
	backend, srv := newFakeCollectionBackend(t)
	client := pocketbase.New(srv.URL)
	svc := NewCollections(log.NewNop())

	// Bare token with no cached identity: privilege is unverified and
	// the call must reach the backend.
	client.SetCredential(pocketbase.Credential{Token: "bare-token"})

	if _, err := svc.Create(context.Background(), client, validCollection(), nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if backend.requests.Load() == 0 {
		t.Error("unverified credentials must fall through to the backend")
	}
}

func TestCollections_AfterLogoutClassifiesAsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"status":401,"message":"The request requires valid authorization token."}`)
			return
		}
		writeJSON(w, validCollection())
	}))
	defer srv.Close()

	client := pocketbase.New(srv.URL)
	client.SetCredential(pocketbase.Credential{
		Token:    "user-token",
		Identity: &pocketbase.Identity{ID: "u1", Collection: "users"},
	})
	client.ClearCredential()

	// A cleared credential is unverified, not known-non-admin: the call
	// must reach the backend and come back auth-classified.
	svc := NewCollections(log.NewNop())
	_, err := svc.Create(context.Background(), client, validCollection(), nil)

	var classified *pberr.Error
	if !errors.As(err, &classified) {
		t.Fatalf("error = %T, want *pberr.Error", err)
	}
	switch classified.Code {
	case pberr.CodeAuthRequired, pberr.CodeAuthInvalid, pberr.CodeAuthExpired:
	default:
		t.Errorf("Code = %s, want an auth code, never FORBIDDEN", classified.Code)
	}
}

func TestCollections_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"perPage":30,"totalItems":2,"totalPages":1,"items":[{"name":"a"},{"name":"b"}]}`)
	}))
	defer srv.Close()

	svc := NewCollections(log.NewNop())
	list, err := svc.List(context.Background(), pocketbase.New(srv.URL), pocketbase.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Items) != 2 {
		t.Errorf("items = %d, want 2", len(list.Items))
	}
}

func TestCollections_GetAllCollapsesPaging(t *testing.T) {
	// Two pages of two definitions each; GetAll must drain them into
	// one result that reports a single page.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprintf(w, `{"page":%d,"perPage":2,"totalItems":4,"totalPages":2,"items":[{"name":"c%d-a"},{"name":"c%d-b"}]}`,
			page, page, page)
	}))
	defer srv.Close()

	svc := NewCollections(log.NewNop())
	result, err := svc.GetAll(context.Background(), pocketbase.New(srv.URL), pocketbase.ListOptions{})
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(result.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(result.Items))
	}
	if result.TotalPages != 1 || result.Page != 1 {
		t.Errorf("paging = page %d of %d, want collapsed to a single page", result.Page, result.TotalPages)
	}
}
