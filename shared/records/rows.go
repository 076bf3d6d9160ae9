package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names used by the spreadsheet export.
const (
	ColumnDate          = "Date"
	ColumnAddedDate     = "Added date"
	ColumnMediaType     = "Media type"
	ColumnContentType   = "Content type"
	ColumnCreator       = "Creator"
	ColumnNotes         = "Notes"
	ColumnPrimaryLink   = "timestamp 1 link"
	ColumnPrimaryThumb  = "timestamp 1 thumbnail"
	ColumnPrimaryTitle  = "timestamp 1 title"
	ColumnSecondaryLink = "timestamp 2 link"
)

const wrappedRowsKey = "videos"

// Row is one spreadsheet row keyed by column header. Non-object entries of a
// row file are kept as Raw so they can be written back unchanged.
type Row struct {
	Fields map[string]any
	Raw    json.RawMessage
}

// IsObject reports whether the row decoded as a JSON object.
func (r Row) IsObject() bool {
	return r.Fields != nil
}

// Get returns the named column as a string. Missing and null values are
// empty, numbers keep their JSON spelling.
func (r Row) Get(column string) string {
	return stringify(r.Fields[column])
}

// Set stores a string value in the named column.
func (r Row) Set(column, value string) {
	if r.Fields != nil {
		r.Fields[column] = value
	}
}

// Clone returns a copy of the row whose fields can be modified freely.
func (r Row) Clone() Row {
	if r.Fields == nil {
		return r
	}
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{Fields: fields}
}

// MarshalJSON writes objects as their fields and everything else verbatim.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.Fields != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r.Fields); err != nil {
			return nil, err
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// ReadRows decodes a row file. The file holds either a JSON array of rows or
// an object with the rows under "videos".
func ReadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return decodeRows(data)
}

func decodeRows(data []byte) ([]Row, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode rows: empty document")
	}

	var entries []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode rows: %w", err)
		}
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode rows: %w", err)
		}
		inner, ok := wrapper[wrappedRowsKey]
		if !ok {
			return nil, fmt.Errorf("failed to decode rows: object has no %q array", wrappedRowsKey)
		}
		if err := json.Unmarshal(inner, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode %q: %w", wrappedRowsKey, err)
		}
	default:
		return nil, fmt.Errorf("failed to decode rows: expected array or object")
	}

	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			rows = append(rows, Row{Raw: entry})
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		rows = append(rows, Row{Fields: fields})
	}
	return rows, nil
}

// WriteRows writes rows as an indented JSON array.
func WriteRows(path string, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	return WriteJSON(path, rows)
}

// WriteJSON encodes v with two-space indentation and sorted object keys and
// replaces path atomically.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// BaseName strips the trailing " link" from a link column name, so
// "timestamp 1 link" becomes "timestamp 1".
func BaseName(linkColumn string) string {
	s := strings.TrimSpace(linkColumn)
	if strings.HasSuffix(strings.ToLower(s), " link") {
		return strings.TrimRight(s[:len(s)-len(" link")], " ")
	}
	return s
}

// TitleColumn returns the title column paired with a link column.
func TitleColumn(linkColumn string) string {
	return BaseName(linkColumn) + " title"
}

// ThumbnailColumn returns the thumbnail column paired with a link column.
func ThumbnailColumn(linkColumn string) string {
	return BaseName(linkColumn) + " thumbnail"
}
