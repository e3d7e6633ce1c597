// Package tiddler_exporter walks a repository and writes one TiddlyWiki tiddler
// per eligible file whose content changed since the previous run.
package tiddler_exporter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/repexport/repexport/tag_mapper"
	"github.com/repexport/repexport/tiddler_exporter/models"
	"github.com/repexport/repexport/utils"
)

// TiddlerType is the content type of every exported tiddler.
const TiddlerType = "text/markdown"

// ConfigExtensions are exported even though the tag tables do not know them.
var ConfigExtensions = map[string]bool{
	".toml": true,
	".ini":  true,
	".cfg":  true,
}

var vcsDirs = map[string]bool{".git": true, ".svn": true, ".hg": true}

// Options configures an Exporter. All paths are absolute except SnapshotName,
// which is relative to Root.
type Options struct {
	Root         string
	OutputDir    string
	HashFile     string
	TagDir       string
	SnapshotName string
	IgnoreSpec   utils.IgnoreSpec
	Fingerprint  Fingerprinter
	DryRun       bool
	Prune        bool

	// OnTiddler, when set, is called for every changed file after its tiddler
	// is built and before it is written.
	OnTiddler func(record *models.FileRecord, tiddler *models.Tiddler)
}

// Exporter runs change detection and tiddler emission for one repository.
type Exporter struct {
	opts     Options
	resolver *tag_mapper.Resolver
	store    *FingerprintStore
	logger   *pterm.Logger
	now      func() time.Time
	Stats    ExportStats
}

func NewExporter(opts Options, resolver *tag_mapper.Resolver, logger *pterm.Logger) *Exporter {
	if opts.Fingerprint == nil {
		opts.Fingerprint = SHA1Fingerprint
	}
	if resolver == nil {
		resolver = tag_mapper.NewResolver(opts.Root, nil)
	}
	return &Exporter{
		opts:     opts,
		resolver: resolver,
		store:    NewFingerprintStore(opts.HashFile, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Export exports every changed eligible file and, unless this is a dry run,
// rewrites the fingerprint table. A cancelled ctx stops the run between files
// and leaves the table untouched.
func (e *Exporter) Export(ctx context.Context) (*models.ExportReport, error) {
	e.Stats.start(e.now())
	defer func() { e.Stats.FinishedAt = e.now() }()

	report := &models.ExportReport{DryRun: e.opts.DryRun}
	previous := e.store.Load()

	files, err := e.CollectFiles(ctx)
	if err != nil {
		return report, err
	}
	report.Scanned = len(files)

	if !e.opts.DryRun {
		if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
			return report, fmt.Errorf("failed to create output directory %s: %w", e.opts.OutputDir, err)
		}
	}

	next := models.FingerprintTable{}
	if !e.opts.Prune {
		for rel, fingerprint := range previous {
			next[rel] = fingerprint
		}
	}
	seen := make(map[string]bool, len(files))

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("export interrupted: %w", err)
		}
		seen[rel] = true

		record, err := e.readRecord(rel)
		if err != nil {
			e.Stats.ReadErrors++
			e.logger.Warn("skipping unreadable file", e.logger.Args("path", rel, "error", err.Error()))
			if old, ok := previous[rel]; ok {
				next[rel] = old
			}
			continue
		}

		unchanged := previous[rel] == record.Fingerprint
		e.Stats.recordMatch(unchanged)
		if unchanged {
			report.Unchanged++
			next[rel] = record.Fingerprint
			continue
		}

		tiddler := e.BuildTiddler(record)
		if e.opts.OnTiddler != nil {
			e.opts.OnTiddler(record, tiddler)
		}

		if e.opts.DryRun {
			e.logger.Info("would export", e.logger.Args("path", rel, "title", tiddler.Title))
			report.Changed = append(report.Changed, rel)
			continue
		}

		if err := e.writeTiddler(tiddler); err != nil {
			e.Stats.WriteErrors++
			e.logger.Warn("failed to write tiddler", e.logger.Args("path", rel, "error", err.Error()))
			report.Failed = append(report.Failed, rel)
			delete(next, rel)
			continue
		}
		e.logger.Info("exported", e.logger.Args("path", rel, "title", tiddler.Title))
		report.Changed = append(report.Changed, rel)
		next[rel] = record.Fingerprint
	}

	if e.opts.Prune {
		for rel := range previous {
			if !seen[rel] {
				report.Pruned = append(report.Pruned, rel)
			}
		}
		sort.Strings(report.Pruned)
	}

	if e.opts.DryRun {
		return report, nil
	}
	if err := e.store.Save(next); err != nil {
		return report, err
	}
	return report, nil
}

// CollectFiles returns the repository-relative, slash-separated paths of every
// eligible file in walk order.
func (e *Exporter) CollectFiles(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(e.opts.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == e.opts.Root {
				return fmt.Errorf("failed to read repository root %s: %w", path, walkErr)
			}
			e.logger.Warn("skipping unreadable entry", e.logger.Args("path", path, "error", walkErr.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == e.opts.Root {
			return nil
		}

		rel, err := filepath.Rel(e.opts.Root, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if e.skipDir(path, d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if samePath(path, e.opts.HashFile) {
			return nil
		}
		if e.IsEligible(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (e *Exporter) skipDir(path, name, rel string) bool {
	switch {
	case vcsDirs[name]:
		return true
	case samePath(path, e.opts.OutputDir), samePath(path, e.opts.TagDir):
		return true
	default:
		return utils.IsIgnored(e.opts.IgnoreSpec, rel+"/")
	}
}

// IsForced reports whether rel is always exported: the snapshot file and
// .gitignore at the repository root.
func (e *Exporter) IsForced(rel string) bool {
	return rel == filepath.ToSlash(e.opts.SnapshotName) || rel == utils.GitignoreFile
}

// IsEligible decides whether the file at rel is exported.
func (e *Exporter) IsEligible(rel string) bool {
	if e.IsForced(rel) {
		return true
	}
	if utils.IsIgnored(e.opts.IgnoreSpec, rel) {
		return false
	}

	name := filepath.Base(rel)
	return tag_mapper.HasTaggedExtension(name) ||
		tag_mapper.IsSpecialFilename(name) ||
		ConfigExtensions[strings.ToLower(filepath.Ext(name))]
}

func (e *Exporter) readRecord(rel string) (*models.FileRecord, error) {
	abs := filepath.Join(e.opts.Root, filepath.FromSlash(rel))
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	e.Stats.recordRead(len(raw))

	content := DecodeContent(raw)
	return &models.FileRecord{
		RelativePath: rel,
		AbsPath:      abs,
		Content:      content,
		Language:     tag_mapper.DetectLanguage(abs),
		Fingerprint:  e.opts.Fingerprint(content),
	}, nil
}

// BuildTiddler renders the tiddler for record. Created and modified are read
// from the clock separately.
func (e *Exporter) BuildTiddler(record *models.FileRecord) *models.Tiddler {
	tags := e.resolver.Tags(record.AbsPath)
	tagField := tag_mapper.FormatTagList(tags)
	created := FormatTimestamp(e.now())

	var text strings.Builder
	text.WriteString("## [[Tags]]\n")
	text.WriteString(tagField)
	text.WriteString("\n\n```")
	text.WriteString(record.Language)
	text.WriteString("\n")
	text.WriteString(record.Content)
	text.WriteString("\n```")

	return &models.Tiddler{
		Title:    e.resolver.Title(record.AbsPath),
		Text:     text.String(),
		Tags:     tagField,
		TagsList: tags,
		Type:     TiddlerType,
		Created:  created,
		Modified: FormatTimestamp(e.now()),
	}
}

// TiddlerPath is where the tiddler with title is written.
func (e *Exporter) TiddlerPath(title string) string {
	return filepath.Join(e.opts.OutputDir, title+".json")
}

func (e *Exporter) writeTiddler(tiddler *models.Tiddler) error {
	return utils.WriteJSONAtomic(e.TiddlerPath(tiddler.Title), tiddler)
}

// FormatTimestamp renders t in TiddlyWiki's UTC YYYYMMDDhhmmssSSS form.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	return t.Format("20060102150405") + fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// ErrNoRoot is returned by Validate when the repository root is unusable.
var ErrNoRoot = errors.New("repository root is not a directory")

// Validate checks that the options describe a usable run.
func (o Options) Validate() error {
	info, err := os.Stat(o.Root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoRoot, o.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNoRoot, o.Root)
	}
	if o.OutputDir == "" || o.HashFile == "" {
		return fmt.Errorf("output directory and fingerprint table path are required")
	}
	return nil
}
