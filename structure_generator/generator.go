// Package structure_generator renders a filtered ASCII tree of a repository and
// writes it as the structure snapshot.
package structure_generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/repexport/repexport/utils"
)

// DefaultSnapshotName is the snapshot file written at the repository root.
const DefaultSnapshotName = "estructura.txt"

const (
	branchConnector = "├── "
	lastConnector   = "└── "
	branchPrefix    = "│   "
	lastPrefix      = "    "
)

// Options controls which entries appear in the tree.
type Options struct {
	ExcludePatterns []string
	HonorGitignore  bool
	IgnoreSpec      utils.IgnoreSpec
	SnapshotName    string
}

// Generator walks a repository root and renders its tree.
type Generator struct {
	root     string
	opts     Options
	patterns []string
	logger   *pterm.Logger
}

func NewGenerator(root string, opts Options, logger *pterm.Logger) *Generator {
	if opts.SnapshotName == "" {
		opts.SnapshotName = DefaultSnapshotName
	}
	patterns := make([]string, 0, len(opts.ExcludePatterns)+len(utils.DefaultExcludePatterns))
	patterns = append(patterns, opts.ExcludePatterns...)
	patterns = append(patterns, utils.DefaultExcludePatterns...)

	return &Generator{
		root:     root,
		opts:     opts,
		patterns: patterns,
		logger:   logger,
	}
}

type treeEntry struct {
	name    string
	path    string
	isDir   bool
	symlink bool
}

// Render returns the tree lines, depth first, siblings sorted case-insensitively.
// The root itself is not printed.
func (g *Generator) Render() ([]string, error) {
	info, err := os.Stat(g.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat repository root %s: %w", g.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root %s is not a directory", g.root)
	}

	g.logger.Info("rendering structure", g.logger.Args("root", g.root, "honor_gitignore", g.opts.HonorGitignore))
	return g.renderDir(g.root, ""), nil
}

func (g *Generator) renderDir(dir, prefix string) []string {
	entries, err := g.readDir(dir)
	if err != nil {
		g.logger.Warn("skipping unreadable directory", g.logger.Args("path", dir, "error", err.Error()))
		return nil
	}

	var lines []string
	for i, entry := range entries {
		last := i == len(entries)-1
		connector, childPrefix := branchConnector, branchPrefix
		if last {
			connector, childPrefix = lastConnector, lastPrefix
		}

		lines = append(lines, prefix+connector+entry.name)
		if entry.isDir && !entry.symlink {
			lines = append(lines, g.renderDir(entry.path, prefix+childPrefix)...)
		}
	}
	return lines
}

func (g *Generator) readDir(dir string) ([]treeEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []treeEntry
	for _, d := range dirEntries {
		entry := treeEntry{
			name:    d.Name(),
			path:    filepath.Join(dir, d.Name()),
			isDir:   d.IsDir(),
			symlink: d.Type()&fs.ModeSymlink != 0,
		}
		if entry.symlink {
			// classify by target, but never descend
			if info, err := os.Stat(entry.path); err == nil {
				entry.isDir = info.IsDir()
			}
		}

		if g.excluded(entry) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})
	return entries, nil
}

func (g *Generator) excluded(entry treeEntry) bool {
	rel, err := filepath.Rel(g.root, entry.path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	if g.opts.HonorGitignore {
		ignoreRel := rel
		if entry.isDir {
			ignoreRel += "/"
		}
		if utils.IsIgnored(g.opts.IgnoreSpec, ignoreRel) {
			if rel == utils.GitignoreFile || rel == filepath.ToSlash(g.opts.SnapshotName) {
				return false
			}
			g.logger.Debug("excluded by .gitignore", g.logger.Args("path", rel))
			return true
		}
	}

	if utils.MatchesGlob(rel, entry.isDir, g.patterns) {
		g.logger.Debug("excluded by pattern", g.logger.Args("path", rel))
		return true
	}

	return utils.IsHidden(entry.name)
}

// Write stores lines joined by "\n" at path, replacing any previous snapshot
// atomically.
func (g *Generator) Write(path string, lines []string) error {
	if err := utils.WriteFileAtomic(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return err
	}
	g.logger.Info("structure written", g.logger.Args("path", path, "lines", len(lines)))
	return nil
}

// LoadExcludeFile reads extra exclusion globs, one per line. A missing file is
// reported with a warning and contributes nothing.
func LoadExcludeFile(path string, logger *pterm.Logger) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	patterns, err := utils.ReadPatternFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("exclude file not found", logger.Args("path", path))
		return nil, nil
	}
	return patterns, err
}
