package pocketbase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AdminCollection is the reserved auth collection for superusers.
// Logging in against it yields an administrator credential.
const AdminCollection = "_superusers"

// DefaultUserCollection is the conventional application-user collection.
const DefaultUserCollection = "users"

// System field names present on every record.
const (
	FieldID             = "id"
	FieldCollectionID   = "collectionId"
	FieldCollectionName = "collectionName"
	FieldCreated        = "created"
	FieldUpdated        = "updated"
)

// Record is an opaque bag of fields belonging to a collection. The
// adapter is intentionally schema-agnostic: besides the system fields it
// passes every backend-returned field through verbatim.
type Record map[string]any

// stringField returns a top-level string field, or "" when absent or
// not a string.
func (r Record) stringField(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// ID returns the record id, or "".
func (r Record) ID() string { return r.stringField(FieldID) }

// CollectionID returns the owning collection id, or "".
func (r Record) CollectionID() string { return r.stringField(FieldCollectionID) }

// CollectionName returns the owning collection name, or "".
func (r Record) CollectionName() string { return r.stringField(FieldCollectionName) }

// IsSystemField reports whether name is one of the record system fields.
func IsSystemField(name string) bool {
	switch name {
	case FieldID, FieldCollectionID, FieldCollectionName, FieldCreated, FieldUpdated:
		return true
	}
	return false
}

// ListOptions carries list query parameters. Filter and Sort are opaque
// strings in PocketBase's own grammar; this layer does not parse them.
type ListOptions struct {
	Filter  string
	Sort    string
	Page    int // 1-based; 0 means backend default (1)
	PerPage int // 0 means backend default (30)
	Expand  string
	Fields  string
	Headers map[string]string // custom headers forwarded verbatim
}

// ListResult is one page of records plus paging metadata.
type ListResult struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}

// AuthResponse is the result of an auth-with-password exchange.
type AuthResponse struct {
	Token  string `json:"token"`
	Record Record `json:"record"`
}

// Collection describes a collection definition as the backend returns it.
type Collection struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name"`
	Type       string         `json:"type,omitempty"`
	Fields     []Field        `json:"fields,omitempty"`
	ListRule   *string        `json:"listRule,omitempty"`
	ViewRule   *string        `json:"viewRule,omitempty"`
	CreateRule *string        `json:"createRule,omitempty"`
	UpdateRule *string        `json:"updateRule,omitempty"`
	DeleteRule *string        `json:"deleteRule,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
	Created    string         `json:"created,omitempty"`
	Updated    string         `json:"updated,omitempty"`
}

// Field is one schema field definition.
type Field struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Required bool           `json:"required,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// CollectionList is one page of collection definitions.
type CollectionList struct {
	Page       int          `json:"page"`
	PerPage    int          `json:"perPage"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
	Items      []Collection `json:"items"`
}

// Response is the raw result of a custom request issued through Send.
type Response struct {
	StatusCode int
	Data       any
	Headers    map[string]string
}

// FieldIssue is one per-field entry of a backend validation failure.
type FieldIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the PocketBase API.
type APIError struct {
	Status  int                   `json:"status"`
	Message string                `json:"message"`
	Data    map[string]FieldIssue `json:"data,omitempty"`
}

// Error implements error.
func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("pocketbase: %s (status %d)", msg, e.Status)
}

// parseAPIError decodes a PocketBase error body. PocketBase wraps
// per-field failures as {"data": {"field": {"code": ..., "message": ...}}}.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Message string                     `json:"message"`
		Data    map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = payload.Message
	if len(payload.Data) > 0 {
		apiErr.Data = make(map[string]FieldIssue, len(payload.Data))
		for field, raw := range payload.Data {
			var issue FieldIssue
			if err := json.Unmarshal(raw, &issue); err != nil {
				issue = FieldIssue{Message: strings.TrimSpace(string(raw))}
			}
			apiErr.Data[field] = issue
		}
	}
	return apiErr
}
