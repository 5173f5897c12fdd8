package service

import (
	"fmt"
	"regexp"

	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// identifierPattern constrains collection and field names: leading
// letter, then letters/digits/underscore.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

const (
	minNameLength = 3
	maxNameLength = 100
)

// reservedCollectionNames are backend-internal names user collections
// must not collide with.
var reservedCollectionNames = map[string]bool{
	"_superusers":   true,
	"_collections":  true,
	"_migrations":   true,
	"_externalAuths": true,
	"_mfas":         true,
	"_otps":         true,
	"_authOrigins":  true,
}

// collectionTypes is the fixed set of collection kinds.
var collectionTypes = map[string]bool{
	"base": true,
	"auth": true,
	"view": true,
}

// fieldTypes is the fixed allow-list of schema field types.
var fieldTypes = map[string]bool{
	"text":     true,
	"editor":   true,
	"number":   true,
	"bool":     true,
	"email":    true,
	"url":      true,
	"date":     true,
	"autodate": true,
	"select":   true,
	"file":     true,
	"relation": true,
	"json":     true,
	"password": true,
}

// ValidateCollection checks a collection definition client-side before
// any network call. It reports every violation in one pass rather than
// failing fast; the caller wraps the result into a single
// VALIDATION_ERROR.
func ValidateCollection(col pocketbase.Collection) []pberr.FieldError {
	var violations []pberr.FieldError

	switch {
	case col.Name == "":
		violations = append(violations, pberr.FieldError{
			Field:   "name",
			Code:    "required",
			Message: "Collection name is required.",
		})
	case len(col.Name) < minNameLength || len(col.Name) > maxNameLength:
		violations = append(violations, pberr.FieldError{
			Field:   "name",
			Code:    "invalid_length",
			Message: fmt.Sprintf("Collection name must be between %d and %d characters.", minNameLength, maxNameLength),
		})
	case reservedCollectionNames[col.Name]:
		violations = append(violations, pberr.FieldError{
			Field:   "name",
			Code:    "reserved",
			Message: fmt.Sprintf("Collection name %q is reserved.", col.Name),
		})
	case !identifierPattern.MatchString(col.Name):
		violations = append(violations, pberr.FieldError{
			Field:   "name",
			Code:    "invalid_format",
			Message: "Collection name must start with a letter and contain only letters, digits and underscores.",
		})
	}

	if col.Type != "" && !collectionTypes[col.Type] {
		violations = append(violations, pberr.FieldError{
			Field:   "type",
			Code:    "invalid_value",
			Message: fmt.Sprintf("Collection type %q must be one of base, auth or view.", col.Type),
		})
	}

	if col.Type == "view" {
		// View collections are defined by a query; the field list is
		// not validated at all.
		query, _ := col.Options["query"].(string)
		if query == "" {
			violations = append(violations, pberr.FieldError{
				Field:   "options.query",
				Code:    "required",
				Message: "View collections require a query option.",
			})
		}
		return violations
	}

	seen := make(map[string]bool, len(col.Fields))
	for i, field := range col.Fields {
		ref := fmt.Sprintf("fields.%d", i)

		switch {
		case field.Name == "":
			violations = append(violations, pberr.FieldError{
				Field:   ref + ".name",
				Code:    "required",
				Message: "Field name is required.",
			})
		case !identifierPattern.MatchString(field.Name):
			violations = append(violations, pberr.FieldError{
				Field:   ref + ".name",
				Code:    "invalid_format",
				Message: fmt.Sprintf("Field name %q must start with a letter and contain only letters, digits and underscores.", field.Name),
			})
		}

		if field.Name != "" {
			// Uniqueness is a case-sensitive exact match.
			if seen[field.Name] {
				violations = append(violations, pberr.FieldError{
					Field:   ref + ".name",
					Code:    "duplicate",
					Message: fmt.Sprintf("Field name %q is used more than once.", field.Name),
				})
			}
			seen[field.Name] = true
		}

		if !fieldTypes[field.Type] {
			violations = append(violations, pberr.FieldError{
				Field:   ref + ".type",
				Code:    "invalid_value",
				Message: fmt.Sprintf("Field type %q is not supported.", field.Type),
			})
		}
	}

	return violations
}
