// Package pocketbase is a lightweight client for the PocketBase HTTP API.
//
// It treats PocketBase as an opaque remote service: records and
// collection options pass through verbatim, and validation of record
// data is left entirely to the backend. The client owns a mutable
// credential slot guarded by a mutex so that concurrent tool calls can
// share one handle per base URL.
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Client is one configured connection to a PocketBase instance.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu   sync.RWMutex
	cred Credential
}

// New creates a client for the given base URL. The URL is normalized by
// stripping trailing slashes.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Credential returns a copy of the current credential slot.
func (c *Client) Credential() Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred
}

// SetCredential replaces the credential slot.
func (c *Client) SetCredential(cred Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred = cred
}

// ClearCredential empties the credential slot. Idempotent.
func (c *Client) ClearCredential() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred = Credential{}
}

// Token returns the current bearer token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred.Token
}

// WithToken returns a derived client sharing the base URL and transport
// but carrying its own bare-token credential. Mutations on the derived
// client never touch the parent's slot, which keeps per-call token
// overrides invisible to concurrent calls on the stored handle.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		cred:       Credential{Token: token},
	}
}

// AuthWithPassword exchanges email+password credentials for a token
// against the given auth collection. It does not mutate the credential
// slot; callers decide whether to persist the session.
func (c *Client) AuthWithPassword(ctx context.Context, collection, identity, password string) (*AuthResponse, error) {
	body := map[string]string{
		"identity": identity,
		"password": password,
	}

	var resp AuthResponse
	path := fmt.Sprintf("/api/collections/%s/auth-with-password", url.PathEscape(collection))
	if err := c.send(ctx, http.MethodPost, path, nil, body, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Send issues an arbitrary request against the API surface and decodes
// the response body as JSON when possible. Used by send_custom_request.
func (c *Client) Send(ctx context.Context, method, endpoint string, body any, query url.Values, headers map[string]string) (*Response, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	raw, status, respHeaders, err := c.do(ctx, method, endpoint, query, body, headers)
	if err != nil {
		return nil, err
	}

	resp := &Response{StatusCode: status, Headers: respHeaders}
	if len(raw) > 0 {
		var data any
		if jsonErr := json.Unmarshal(raw, &data); jsonErr == nil {
			resp.Data = data
		} else {
			resp.Data = string(raw)
		}
	}
	return resp, nil
}

// send is the typed request helper: it issues the call and unmarshals a
// 2xx body into result.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string, result any) error {
	raw, _, _, err := c.do(ctx, method, path, query, body, headers)
	if err != nil {
		return err
	}
	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// do performs one HTTP round trip. A non-2xx status is returned as
// *APIError; transport failures are wrapped and surfaced unchanged.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string) ([]byte, int, map[string]string, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, nil, parseAPIError(resp.StatusCode, respBody)
	}

	respHeaders := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}
	return respBody, resp.StatusCode, respHeaders, nil
}

// listQuery converts ListOptions into query parameters.
func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(opts.PerPage))
	}
	if opts.Expand != "" {
		q.Set("expand", opts.Expand)
	}
	if opts.Fields != "" {
		q.Set("fields", opts.Fields)
	}
	return q
}
