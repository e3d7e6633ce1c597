package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitignoreFile is the ignore-pattern file read from the repository root.
const GitignoreFile = ".gitignore"

// DefaultExcludePatterns are always applied when rendering the structure tree.
// Patterns ending in "/" only match directories.
var DefaultExcludePatterns = []string{
	// version control
	".git/", ".svn/", ".hg/",
	// caches and environments
	"__pycache__/", ".mypy_cache/", ".pytest_cache/", "venv/", ".venv/", "node_modules/",
	// build output
	"dist/", "build/",
	// editors and OS metadata
	".idea/", ".vscode/", ".DS_Store",
	// secrets and credentials
	".env", "secret.env", "*.key", "*.pem", "*.crt", "*.p12", "*.db", "*.sqlite",
	// compiled objects
	"*.pyc", "*.class", "*.o", "*.exe", "*.dll", "*.so", "*.dylib", "*.pdb",
}

// VisibleHiddenNames are dot-entries that stay visible in the tree.
var VisibleHiddenNames = map[string]bool{
	GitignoreFile: true,
	".github":     true,
}

// IgnoreSpec decides whether a repository-relative path is ignored.
// Directory paths are passed with a trailing "/".
type IgnoreSpec interface {
	Matches(relativePath string) bool
}

type gitignoreSpec struct {
	matcher gitignore.Matcher
}

func (s *gitignoreSpec) Matches(relativePath string) bool {
	rel := filepath.ToSlash(relativePath)
	isDir := strings.HasSuffix(rel, "/")
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return false
	}
	return s.matcher.Match(strings.Split(rel, "/"), isDir)
}

// CompileIgnoreSpec compiles gitignore-style pattern lines with wildmatch
// semantics. It returns nil when there is nothing to match against.
func CompileIgnoreSpec(lines []string) IgnoreSpec {
	lines = cleanPatternLines(lines)
	if len(lines) == 0 {
		return nil
	}
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return &gitignoreSpec{matcher: gitignore.NewMatcher(patterns)}
}

// LoadGitignoreSpec reads the .gitignore at the repository root.
// A missing or empty file yields a nil spec and no error.
func LoadGitignoreSpec(root string) (IgnoreSpec, error) {
	lines, err := ReadPatternFile(filepath.Join(root, GitignoreFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return CompileIgnoreSpec(lines), nil
}

// IsIgnored is nil-safe: a nil spec ignores nothing.
func IsIgnored(spec IgnoreSpec, relativePath string) bool {
	if spec == nil {
		return false
	}
	return spec.Matches(relativePath)
}

// ReadPatternFile returns the non-empty, non-comment lines of a pattern file.
func ReadPatternFile(patternPath string) ([]string, error) {
	content, err := os.ReadFile(patternPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file %s: %w", patternPath, err)
	}
	return cleanPatternLines(strings.Split(string(content), "\n")), nil
}

func cleanPatternLines(lines []string) []string {
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns
}

// MatchesGlob reports whether relativePath matches any glob pattern, either as a
// whole path or by its base name.
func MatchesGlob(relativePath string, isDir bool, patterns []string) bool {
	rel := strings.TrimSuffix(filepath.ToSlash(relativePath), "/")
	name := path.Base(rel)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "/") {
			if !isDir {
				continue
			}
			pattern = strings.TrimSuffix(pattern, "/")
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// IsHidden reports whether name is a dot-entry that is not explicitly visible.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && !VisibleHiddenNames[name]
}
