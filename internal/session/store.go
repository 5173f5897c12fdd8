// Package session owns the process-wide mapping from PocketBase base
// URLs to client handles.
//
// The store keeps at most one handle per normalized URL for the life of
// the process; entries are created lazily and never evicted. Mutating
// one handle's credential is never observable through another URL's
// handle. Credential state lives on the handle itself, so logout mutates
// in place rather than removing the entry.
//
// Access is guarded by a mutex: the MCP runtime may dispatch tool calls
// concurrently against one process, and an unsynchronized map here would
// race. Per-call token overrides are resolved to a derived client view
// instead of a mutation, which keeps read-then-use of a token atomic
// with respect to the call that performed it.
package session

import (
	"sync"

	"github.com/yassine-cc/pb-mcp/internal/config"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// Store maps normalized base URLs to client handles.
type Store struct {
	defaultURL string
	envToken   string

	mu      sync.Mutex
	clients map[string]*pocketbase.Client
}

// NewStore creates an empty store. defaultURL is used when a call does
// not name a base URL; envToken is the lowest-precedence fallback
// credential (typically POCKETBASE_ADMIN_TOKEN).
func NewStore(defaultURL, envToken string) *Store {
	return &Store{
		defaultURL: config.NormalizeURL(defaultURL),
		envToken:   envToken,
		clients:    make(map[string]*pocketbase.Client),
	}
}

// normalize resolves the effective URL for a call: explicit argument
// over configured default, trailing slashes stripped.
func (s *Store) normalize(baseURL string) string {
	if url := config.NormalizeURL(baseURL); url != "" {
		return url
	}
	return s.defaultURL
}

// Resolve returns the stored handle for the resolved URL, creating an
// unauthenticated one on first reference. Idempotent: equal normalized
// URLs yield the identical handle instance, so credential mutations made
// by one call are visible to later calls.
func (s *Store) Resolve(baseURL string) *pocketbase.Client {
	url := s.normalize(baseURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[url]; ok {
		return client
	}
	client := pocketbase.New(url)
	s.clients[url] = client
	return client
}

// Put overwrites whatever handle currently occupies the URL slot.
func (s *Store) Put(baseURL string, client *pocketbase.Client) {
	url := s.normalize(baseURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[url] = client
}

// ClientFor resolves the client to use for one call, applying credential
// precedence: explicit call-level token > stored session token >
// environment token. Exactly one wins; they are never merged. Tokens
// other than the stored one are applied on a derived view so the stored
// handle's slot is never disturbed.
func (s *Store) ClientFor(baseURL, explicitToken string) *pocketbase.Client {
	client := s.Resolve(baseURL)

	if explicitToken != "" {
		return client.WithToken(explicitToken)
	}
	if client.Credential().Valid() {
		return client
	}
	if s.envToken != "" {
		return client.WithToken(s.envToken)
	}
	return client
}

// Len reports how many handles the store currently holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
