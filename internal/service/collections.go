// Package service implements the resource operations exposed through
// the tool surface: collection management, record and user CRUD, and
// file URL helpers.
//
// Every operation borrows a resolved client handle for the duration of
// one call, passes filters and payloads through to the backend
// verbatim, and normalizes failures through the pberr taxonomy. Only
// collection management performs client-side checks; record and user
// data validation is deliberately left to the backend, whose own error
// surface is more faithful than a local reimplementation would be.
package service

import (
	"context"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// Collections manages collection definitions.
type Collections struct {
	logger log.Logger
}

// NewCollections creates the collection management service.
func NewCollections(logger log.Logger) *Collections {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Collections{logger: logger}
}

// requireNotKnownNonAdmin is the client-side privilege gate for mutating
// collection operations. It only early-exits when a login established
// that the credential is NOT an administrator; an unverified bare token
// always falls through so the backend enforces the real check. Omitting
// this gate would not break correctness, only defer the error.
func requireNotKnownNonAdmin(client *pocketbase.Client) *pberr.Error {
	if client.Credential().Privilege() == pocketbase.PrivilegeKnownNonAdmin {
		return pberr.New(pberr.CodeForbidden,
			"Administrator privileges are required to manage collections")
	}
	return nil
}

// List returns one page of collection definitions.
func (s *Collections) List(ctx context.Context, client *pocketbase.Client, opts pocketbase.ListOptions) (*pocketbase.CollectionList, error) {
	result, err := client.ListCollections(ctx, opts)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	return result, nil
}

// GetAll ignores paging and returns every collection definition with
// totalPages fixed at 1.
func (s *Collections) GetAll(ctx context.Context, client *pocketbase.Client, opts pocketbase.ListOptions) (*pocketbase.CollectionList, error) {
	result, err := client.AllCollections(ctx, opts)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	return result, nil
}

// Get fetches one collection definition by name or id.
func (s *Collections) Get(ctx context.Context, client *pocketbase.Client, nameOrID string, headers map[string]string) (*pocketbase.Collection, error) {
	col, err := client.GetCollection(ctx, nameOrID, headers)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	return col, nil
}

// Create validates the definition client-side, applies the privilege
// gate, and creates the collection. All schema violations are reported
// in a single VALIDATION_ERROR.
func (s *Collections) Create(ctx context.Context, client *pocketbase.Client, col pocketbase.Collection, headers map[string]string) (*pocketbase.Collection, error) {
	if gateErr := requireNotKnownNonAdmin(client); gateErr != nil {
		return nil, gateErr
	}
	if violations := ValidateCollection(col); len(violations) > 0 {
		return nil, pberr.Validation("Collection definition is invalid", violations)
	}

	created, err := client.CreateCollection(ctx, col, headers)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	s.logger.Info("collection created", "name", created.Name, "type", created.Type)
	return created, nil
}

// Update applies a partial update after the privilege gate. Only the
// supplied keys are sent; name and field changes inside the patch are
// validated with the same rules as Create.
func (s *Collections) Update(ctx context.Context, client *pocketbase.Client, nameOrID string, patch pocketbase.Collection, headers map[string]string) (*pocketbase.Collection, error) {
	if gateErr := requireNotKnownNonAdmin(client); gateErr != nil {
		return nil, gateErr
	}

	body := map[string]any{}
	var check pocketbase.Collection
	if patch.Name != "" {
		body["name"] = patch.Name
		check.Name = patch.Name
	}
	if patch.Type != "" {
		body["type"] = patch.Type
		check.Type = patch.Type
	}
	if patch.Fields != nil {
		body["fields"] = patch.Fields
		check.Fields = patch.Fields
	}
	if patch.Options != nil {
		body["options"] = patch.Options
		check.Options = patch.Options
	}
	for key, rule := range map[string]*string{
		"listRule":   patch.ListRule,
		"viewRule":   patch.ViewRule,
		"createRule": patch.CreateRule,
		"updateRule": patch.UpdateRule,
		"deleteRule": patch.DeleteRule,
	} {
		if rule != nil {
			body[key] = *rule
		}
	}

	if check.Name != "" || check.Type != "" || check.Fields != nil {
		// A partial patch omits the name; do not demand one.
		if check.Name == "" {
			check.Name = "placeholder"
		}
		if violations := ValidateCollection(check); len(violations) > 0 {
			return nil, pberr.Validation("Collection update is invalid", violations)
		}
	}

	updated, err := client.UpdateCollection(ctx, nameOrID, body, headers)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	s.logger.Info("collection updated", "name", updated.Name)
	return updated, nil
}

// Delete removes a collection definition after the privilege gate.
func (s *Collections) Delete(ctx context.Context, client *pocketbase.Client, nameOrID string, headers map[string]string) error {
	if gateErr := requireNotKnownNonAdmin(client); gateErr != nil {
		return gateErr
	}
	if err := client.DeleteCollection(ctx, nameOrID, headers); err != nil {
		return pberr.Classify(err)
	}
	s.logger.Info("collection deleted", "name", nameOrID)
	return nil
}
