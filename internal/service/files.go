package service

import (
	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// Files derives file-serving URLs from records.
type Files struct {
	logger log.Logger
}

// NewFiles creates the file URL service.
func NewFiles(logger log.Logger) *Files {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Files{logger: logger}
}

// FileURLRequest describes one URL derivation.
type FileURLRequest struct {
	Record    pocketbase.Record
	Filename  string // explicit filename, or empty to use Field
	Field     string // field expected to hold one or more filenames
	Thumb     string
	WithToken bool
}

// URL builds the file-serving URL for the request. When Filename is
// empty the first filename found in Field is used. WithToken embeds the
// client's active token as a query parameter only when one is present.
func (s *Files) URL(client *pocketbase.Client, req FileURLRequest) (string, error) {
	filename := req.Filename
	if filename == "" && req.Field != "" {
		filename = firstFilename(req.Record[req.Field])
	}

	opts := pocketbase.FileURLOptions{Thumb: req.Thumb}
	if req.WithToken {
		opts.Token = client.Token()
	}

	url, err := client.FileURL(req.Record, filename, opts)
	if err != nil {
		return "", pberr.Wrap(pberr.CodeValidationError, err.Error(), err)
	}
	return url, nil
}

// FileFields reports which non-system fields of the record look like
// file references.
func (s *Files) FileFields(rec pocketbase.Record) []string {
	return pocketbase.FileFields(rec)
}

// IsValidFileURL checks a URL against the client's origin and the
// fixed /api/files/{collectionId}/{recordId}/{filename} path shape.
func (s *Files) IsValidFileURL(client *pocketbase.Client, raw string) bool {
	return client.IsValidFileURL(raw)
}

func firstFilename(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
