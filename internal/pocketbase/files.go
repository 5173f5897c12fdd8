package pocketbase

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrNoFilename indicates an empty or blank filename.
	ErrNoFilename = errors.New("filename is required")

	// ErrIncompleteRecord indicates a record missing id or collection
	// identifiers, so no file URL can be derived from it.
	ErrIncompleteRecord = errors.New("record is missing id or collection identifier")
)

// fileNamePattern matches values that look like stored file references:
// a base name followed by a short alphanumeric extension.
var fileNamePattern = regexp.MustCompile(`^[^/\\]+\.[A-Za-z0-9]{1,8}$`)

// FileURLOptions tunes file URL construction.
type FileURLOptions struct {
	// Thumb is a thumbnail size directive, e.g. "100x100".
	Thumb string

	// Token is embedded as a query parameter for protected files.
	// Empty means no token parameter.
	Token string
}

// FileURL builds the file-serving URL for one filename stored on a
// record. The record must carry an id and a collection identifier
// (collectionId preferred, collectionName accepted).
func (c *Client) FileURL(rec Record, filename string, opts FileURLOptions) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", ErrNoFilename
	}

	collection := rec.CollectionID()
	if collection == "" {
		collection = rec.CollectionName()
	}
	if rec.ID() == "" || collection == "" {
		return "", ErrIncompleteRecord
	}

	fileURL := fmt.Sprintf("%s/api/files/%s/%s/%s",
		c.baseURL,
		url.PathEscape(collection),
		url.PathEscape(rec.ID()),
		url.PathEscape(filename),
	)

	q := url.Values{}
	if opts.Thumb != "" {
		q.Set("thumb", opts.Thumb)
	}
	if opts.Token != "" {
		q.Set("token", opts.Token)
	}
	if len(q) > 0 {
		fileURL += "?" + q.Encode()
	}
	return fileURL, nil
}

// IsValidFileURL reports whether raw is a well-formed file-serving URL
// for this client's instance: same origin and the fixed path shape
// /api/files/{collectionId}/{recordId}/{filename}. Any parse failure or
// mismatch yields false.
func (c *Client) IsValidFileURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != base.Scheme || parsed.Host != base.Host {
		return false
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 5 || parts[0] != "api" || parts[1] != "files" {
		return false
	}
	for _, part := range parts[2:] {
		if part == "" {
			return false
		}
	}
	return true
}

// FileFields scans a record's non-system fields and returns, sorted, the
// names of fields whose values look like file references: a string with
// a short alphanumeric extension, or an array of such strings.
func FileFields(rec Record) []string {
	var fields []string
	for name, value := range rec {
		if IsSystemField(name) {
			continue
		}
		if isFileValue(value) {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

func isFileValue(value any) bool {
	switch v := value.(type) {
	case string:
		return fileNamePattern.MatchString(strings.TrimSpace(v))
	case []string:
		return allFileNames(len(v), func(i int) any { return v[i] })
	case []any:
		return allFileNames(len(v), func(i int) any { return v[i] })
	}
	return false
}

func allFileNames(n int, at func(int) any) bool {
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		s, ok := at(i).(string)
		if !ok || !fileNamePattern.MatchString(strings.TrimSpace(s)) {
			return false
		}
	}
	return true
}
