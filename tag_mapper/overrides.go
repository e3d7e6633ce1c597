package tag_mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes one tag override document: a list of entries.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array"
}`

// entrySchema describes a single {title, tags} entry of a document.
const entrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "tags"],
  "properties": {
    "title": {"type": "string", "pattern": "\\S"},
    "tags": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    }
  }
}`

// OverrideDocError reports a tag override document that could not be used.
type OverrideDocError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *OverrideDocError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tag override document %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("tag override document %s: %s", e.Path, e.Reason)
}

func (e *OverrideDocError) Unwrap() error {
	return e.Cause
}

// Overrides is the custom title -> tags table, built once per run.
type Overrides struct {
	byTitle   map[string][]string
	Documents []string
	Skipped   []string
	// SkippedEntries names dropped entries of otherwise usable documents as "path#index".
	SkippedEntries []string
}

type overrideEntry struct {
	Title string          `json:"title"`
	Tags  json.RawMessage `json:"tags"`
}

// NewOverrides builds a table from already-parsed entries.
func NewOverrides(entries map[string][]string) *Overrides {
	o := &Overrides{byTitle: make(map[string][]string, len(entries))}
	for title, tags := range entries {
		o.byTitle[title] = append([]string(nil), tags...)
	}
	return o
}

// Lookup returns a copy of the tags registered for title.
func (o *Overrides) Lookup(title string) ([]string, bool) {
	if o == nil {
		return nil, false
	}
	tags, ok := o.byTitle[title]
	if !ok {
		return nil, false
	}
	return append([]string(nil), tags...), true
}

// Len returns the number of titles with custom tags.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.byTitle)
}

// LoadOverrides reads every *.json document in dir, in name order. Documents
// that are not valid JSON or not a list are skipped with a warning, as is any
// single entry without a title or with tags that are neither a string nor a list
// of strings. Later documents win when titles repeat. A missing dir yields an
// empty table.
func LoadOverrides(dir string, logger *pterm.Logger) (*Overrides, error) {
	overrides := NewOverrides(nil)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("tag override directory not found, using built-in tags only", logger.Args("dir", dir))
		return overrides, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tag override directory %s: %w", dir, err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		docs = append(docs, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(docs)

	if len(docs) == 0 {
		logger.Warn("no tag override documents found", logger.Args("dir", dir))
		return overrides, nil
	}

	reader, err := newOverrideReader(logger)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		parsed, skipped, err := reader.read(doc)
		if err != nil {
			logger.Warn("skipping tag override document", logger.Args("path", doc, "error", err.Error()))
			overrides.Skipped = append(overrides.Skipped, doc)
			continue
		}
		for title, tags := range parsed {
			overrides.byTitle[title] = tags
		}
		overrides.Documents = append(overrides.Documents, doc)
		overrides.SkippedEntries = append(overrides.SkippedEntries, skipped...)
		logger.Debug("loaded tag override document", logger.Args("path", doc, "entries", len(parsed), "skipped", len(skipped)))
	}

	return overrides, nil
}

type overrideReader struct {
	document *gojsonschema.Schema
	entry    *gojsonschema.Schema
	logger   *pterm.Logger
}

func newOverrideReader(logger *pterm.Logger) (*overrideReader, error) {
	document, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile tag override document schema: %w", err)
	}
	entry, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(entrySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile tag override entry schema: %w", err)
	}
	return &overrideReader{document: document, entry: entry, logger: logger}, nil
}

// read returns the usable entries of the document at path and the "path#index"
// names of the entries it dropped. The error is set only when the whole
// document is unusable.
func (r *overrideReader) read(path string) (map[string][]string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &OverrideDocError{Path: path, Reason: "unreadable", Cause: err}
	}

	result, err := r.document.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, nil, &OverrideDocError{Path: path, Reason: "not valid JSON", Cause: err}
	}
	if !result.Valid() {
		return nil, nil, &OverrideDocError{Path: path, Reason: "schema mismatch: " + describe(result)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, &OverrideDocError{Path: path, Reason: "decode failed", Cause: err}
	}

	parsed := make(map[string][]string, len(items))
	var skipped []string
	for i, item := range items {
		title, tags, err := r.decodeEntry(item)
		if err != nil {
			r.logger.Warn("skipping tag override entry", r.logger.Args("path", path, "index", i, "error", err.Error()))
			skipped = append(skipped, fmt.Sprintf("%s#%d", path, i))
			continue
		}
		parsed[title] = tags
	}
	return parsed, skipped, nil
}

func (r *overrideReader) decodeEntry(item json.RawMessage) (string, []string, error) {
	result, err := r.entry.Validate(gojsonschema.NewBytesLoader(item))
	if err != nil {
		return "", nil, err
	}
	if !result.Valid() {
		return "", nil, errors.New(describe(result))
	}

	var entry overrideEntry
	if err := json.Unmarshal(item, &entry); err != nil {
		return "", nil, err
	}
	tags, err := decodeTags(entry.Tags)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(entry.Title), tags, nil
}

func describe(result *gojsonschema.Result) string {
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return strings.Join(problems, "; ")
}

func decodeTags(raw json.RawMessage) ([]string, error) {
	var field string
	if err := json.Unmarshal(raw, &field); err == nil {
		return ParseTagString(field), nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(list))
	for _, tag := range list {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}
