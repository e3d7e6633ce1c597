// Package tag_mapper derives tiddler titles, semantic tags and code-block
// languages for repository files.
package tag_mapper

import (
	"path/filepath"
	"strings"
)

// Resolver resolves tags for files under Root, consulting the custom
// overrides before the built-in tables.
type Resolver struct {
	Root      string
	overrides *Overrides
}

// NewResolver creates a Resolver. overrides may be nil.
func NewResolver(root string, overrides *Overrides) *Resolver {
	return &Resolver{Root: root, overrides: overrides}
}

// Title returns the canonical tiddler title of path: "-" followed by the
// repository-relative path with separators replaced by underscores.
func (r *Resolver) Title(path string) string {
	rel, ok := r.relative(path)
	if !ok {
		return TitlePrefix + filepath.Base(path)
	}
	return TitlePrefix + titleFromRelative(rel)
}

// Tags returns the ordered labels of path. A custom override is returned as is;
// otherwise the base label is followed by the title label and the group label.
func (r *Resolver) Tags(path string) []string {
	title := r.Title(path)
	if tags, ok := r.overrides.Lookup(title); ok {
		return tags
	}

	return []string{
		BaseLabel(filepath.Base(path)),
		Label(title),
		GroupTag,
	}
}

func (r *Resolver) relative(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		return path, true
	}
	rel, err := filepath.Rel(r.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func titleFromRelative(rel string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(rel)
}

// BaseLabel returns the decorated type label for a file name, or the
// unclassified sentinel when neither table knows it.
func BaseLabel(name string) string {
	if tag, ok := SpecialFilenameTags[name]; ok {
		return Label(TypeMarker + tag)
	}
	if tag, ok := ExtensionTags[strings.ToLower(filepath.Ext(name))]; ok {
		return Label(TypeMarker + tag)
	}
	return UnclassifiedTag
}

// DetectLanguage returns the fenced-block language for path.
func DetectLanguage(path string) string {
	name := filepath.Base(path)
	if lang, ok := SpecialFilenameLanguages[name]; ok {
		return lang
	}
	if lang, ok := ExtensionLanguages[strings.ToLower(filepath.Ext(name))]; ok {
		return lang
	}
	return DefaultLanguage
}

// IsSpecialFilename reports whether name has its own tag regardless of extension.
func IsSpecialFilename(name string) bool {
	_, ok := SpecialFilenameTags[name]
	return ok
}

// HasTaggedExtension reports whether the extension of name is in ExtensionTags.
func HasTaggedExtension(name string) bool {
	_, ok := ExtensionTags[strings.ToLower(filepath.Ext(name))]
	return ok
}
