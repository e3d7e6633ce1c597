package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/repexport/repexport/config"
	"github.com/repexport/repexport/constants/lipgloss"
	"github.com/repexport/repexport/tiddler_exporter"
	"github.com/repexport/repexport/utils"
	"github.com/spf13/cobra"
)

// resetHashesCmd represents the reset-hashes command
var resetHashesCmd = &cobra.Command{
	Use:   "reset-hashes",
	Short: "Delete the fingerprint table so the next export rewrites every tiddler",
	Long: `The 'reset-hashes' command removes the fingerprint table kept by 'export'.
The next export then treats every eligible file as changed. Use --stats to inspect
the table instead of deleting it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")

		return handleResetHashesCommand(rootDependencies, force, stats, bufio.NewReader(os.Stdin), os.Stdout)
	},
}

func init() {
	resetHashesCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")
	resetHashesCmd.Flags().BoolP("stats", "s", false, "Show table statistics and keep the table")

	rootCmd.AddCommand(resetHashesCmd)
}

func handleResetHashesCommand(deps *RootDependencies, force bool, showStats bool, reader *bufio.Reader, out io.Writer) error {
	store := tiddler_exporter.NewFingerprintStore(config.ResolvePath(deps.Root, deps.Config.Export.HashFile), deps.Logger)

	if showStats {
		stats, err := store.Stats(10)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, lipgloss.Info.Render("Fingerprint table:"))
		fmt.Fprintf(out, "  Path: %s\n", stats.Path)
		if !stats.Exists {
			fmt.Fprintln(out, "  Not created yet, the next export writes every tiddler")
			return nil
		}
		fmt.Fprintf(out, "  Entries: %d\n", stats.Entries)
		fmt.Fprintf(out, "  Size: %.2f KB\n", float64(stats.SizeBytes)/1024)
		fmt.Fprintf(out, "  Last written: %s\n", stats.ModTime.Format("2006-01-02 15:04:05"))
		for _, path := range stats.Sample {
			fmt.Fprintf(out, "    %s\n", path)
		}
		if stats.Entries > len(stats.Sample) {
			fmt.Fprintf(out, "    ... and %d more\n", stats.Entries-len(stats.Sample))
		}
		return nil
	}

	if !force {
		ok, err := utils.PromptYesNo(reader, "Delete the fingerprint table and re-export everything next time?", false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, lipgloss.Yellow.Render("Reset cancelled."))
			return nil
		}
	}

	if err := store.Delete(); err != nil {
		return err
	}
	fmt.Fprintln(out, lipgloss.Green.Render("✓ Fingerprint table removed."))
	return nil
}
