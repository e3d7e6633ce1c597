package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/repexport/repexport/config"
	"github.com/repexport/repexport/constants/lipgloss"
	"github.com/repexport/repexport/tag_mapper"
	"github.com/repexport/repexport/tiddler_exporter"
	"github.com/repexport/repexport/tiddler_exporter/models"
	"github.com/repexport/repexport/utils"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export changed files as TiddlyWiki tiddlers",
	Long: `The 'export' command fingerprints every eligible file in the repository and
writes a JSON tiddler for each file whose content changed since the last run.
Fingerprints are kept in the table file so unchanged files are skipped next time.
Use --dry-run to list what would be exported and --preview to see the tiddlers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		preview, _ := cmd.Flags().GetBool("preview")

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		_, err = handleExportCommand(ctx, rootDependencies, exportRequest{DryRun: dryRun, Preview: preview}, os.Stdout)
		return err
	},
}

func init() {
	exportCmd.Flags().Bool("dry-run", false, "Report changed files without writing anything")
	exportCmd.Flags().Bool("preview", false, "Print each changed tiddler with syntax highlighting")
	exportCmd.Flags().String("hash-algorithm", config.DefaultConfig.Export.HashAlgorithm, "Fingerprint algorithm: sha1 or xxh3")
	exportCmd.Flags().Bool("prune", config.DefaultConfig.Export.Prune, "Drop fingerprints of files that no longer exist")

	rootCmd.AddCommand(exportCmd)
}

type exportRequest struct {
	DryRun  bool
	Preview bool
}

func newExporter(deps *RootDependencies, req exportRequest, out io.Writer) (*tiddler_exporter.Exporter, error) {
	cfg := deps.Config
	logger := deps.Logger

	spec, err := utils.LoadGitignoreSpec(deps.Root)
	if err != nil {
		return nil, err
	}

	tagDir := config.ResolvePath(deps.Root, cfg.Export.TagDir)
	overrides, err := tag_mapper.LoadOverrides(tagDir, logger)
	if err != nil {
		return nil, err
	}

	fingerprint, err := tiddler_exporter.NewFingerprinter(cfg.Export.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	opts := tiddler_exporter.Options{
		Root:         deps.Root,
		OutputDir:    config.ResolvePath(deps.Root, cfg.Export.OutputDir),
		HashFile:     config.ResolvePath(deps.Root, cfg.Export.HashFile),
		TagDir:       tagDir,
		SnapshotName: snapshotName(deps.Root, cfg.Structure.Output),
		IgnoreSpec:   spec,
		Fingerprint:  fingerprint,
		DryRun:       req.DryRun,
		Prune:        cfg.Export.Prune,
	}
	if req.Preview {
		opts.OnTiddler = func(record *models.FileRecord, tiddler *models.Tiddler) {
			printTiddlerPreview(out, tiddler, cfg.Theme, logger)
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return tiddler_exporter.NewExporter(opts, tag_mapper.NewResolver(deps.Root, overrides), logger), nil
}

func handleExportCommand(ctx context.Context, deps *RootDependencies, req exportRequest, out io.Writer) (*models.ExportReport, error) {
	exporter, err := newExporter(deps, req, out)
	if err != nil {
		return nil, err
	}

	var spinnerInstance *pterm.SpinnerPrinter
	// the spinner only runs on a real terminal stream
	if !req.Preview && out == io.Writer(os.Stdout) {
		spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
			WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
			WithDelay(100).WithRemoveWhenDone(true)
		spinnerInstance, _ = spinner.Start("Exporting tiddlers...")
	}

	report, err := exporter.Export(ctx)

	if spinnerInstance != nil {
		_ = spinnerInstance.Stop()
		fmt.Print("\r")
	}
	deps.Logger.Debug("export stats", deps.Logger.ArgsFromMap(exporter.Stats.Summary()))

	if err != nil {
		return report, err
	}
	printExportReport(out, report)
	return report, nil
}

func printTiddlerPreview(out io.Writer, tiddler *models.Tiddler, theme string, logger *pterm.Logger) {
	fmt.Fprintln(out, lipgloss.BoxStyle.Render(tiddler.Title))
	if err := utils.RenderMarkdown(out, tiddler.Text, theme); err != nil {
		logger.Warn("preview highlighting failed", logger.Args("title", tiddler.Title, "error", err.Error()))
		fmt.Fprintln(out, tiddler.Text)
	}
	fmt.Fprintln(out)
}

func printExportReport(out io.Writer, report *models.ExportReport) {
	heading := fmt.Sprintf("Total changes: %d", len(report.Changed))
	if report.DryRun {
		heading = "[dry-run] " + heading
	}
	fmt.Fprintln(out, lipgloss.Info.Render(heading))
	if !report.HasChanges() {
		fmt.Fprintln(out, lipgloss.Green.Render("✓ Every tiddler is up to date."))
	}
	for _, rel := range report.Changed {
		fmt.Fprintf(out, "  - %s\n", rel)
	}

	if len(report.Failed) > 0 {
		fmt.Fprintln(out, lipgloss.Red.Render(fmt.Sprintf("Failed to write %d tiddler(s), they will be retried next run:", len(report.Failed))))
		for _, rel := range report.Failed {
			fmt.Fprintf(out, "  - %s\n", rel)
		}
	}
	if len(report.Pruned) > 0 {
		fmt.Fprintln(out, lipgloss.Gray.Render(fmt.Sprintf("Pruned %d stale fingerprint(s): %s", len(report.Pruned), strings.Join(report.Pruned, ", "))))
	}

	summary := fmt.Sprintf("scanned %d · changed %d · unchanged %d", report.Scanned, len(report.Changed), report.Unchanged)
	fmt.Fprintln(out, lipgloss.Gray.Render(summary))
}
