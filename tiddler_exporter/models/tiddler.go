package models

// FileRecord is an eligible file read during one export run.
type FileRecord struct {
	RelativePath string
	AbsPath      string
	Content      string
	Language     string
	Fingerprint  string
}

// Tiddler is the TiddlyWiki import record written for each changed file.
type Tiddler struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Tags     string   `json:"tags"`
	TagsList []string `json:"tags_list"`
	Type     string   `json:"type"`
	Created  string   `json:"created"`
	Modified string   `json:"modified"`
}

// FingerprintTable maps a repository-relative path to the digest of the
// content last exported for it.
type FingerprintTable map[string]string

// ExportReport summarises one export run.
type ExportReport struct {
	Changed   []string
	Failed    []string
	Pruned    []string
	Unchanged int
	Scanned   int
	DryRun    bool
}

// HasChanges reports whether the run produced or would produce tiddlers.
func (r *ExportReport) HasChanges() bool {
	return r != nil && len(r.Changed) > 0
}
