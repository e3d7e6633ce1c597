package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/repexport/repexport/constants/lipgloss"
	"github.com/repexport/repexport/utils"
	"github.com/spf13/cobra"
)

const (
	menuStructure = "Generate ASCII structure"
	menuExport    = "Export tiddlers"
	menuBoth      = "Generate structure and export tiddlers"
	menuHelp      = "Help"
	menuExit      = "Exit"
)

var menuOptions = []string{menuStructure, menuExport, menuBoth, menuHelp, menuExit}

// interactiveCmd: repexport interactive
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Step-by-step menu for the structure snapshot and tiddler export",
	Long: `The 'interactive' command shows a menu and asks the same questions the flags
answer: whether to honor .gitignore, the snapshot name, extra exclusions and
whether to simulate the export first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return handleInteractiveCommand(ctx, rootDependencies, selectMenuOption, bufio.NewReader(os.Stdin), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// menuSelector returns the chosen menu entry.
type menuSelector func(options []string) (string, error)

func selectMenuOption(options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText("What do you want to do?").
		Show()
}

func handleInteractiveCommand(ctx context.Context, deps *RootDependencies, choose menuSelector, reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, lipgloss.BoxStyle.Render("repexport · interactive mode"))

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, lipgloss.Yellow.Render("\n⚠️ Interrupted, exiting..."))
			return nil
		}

		choice, err := choose(menuOptions)
		if err != nil {
			return fmt.Errorf("menu selection failed: %w", err)
		}

		switch choice {
		case menuExit:
			fmt.Fprintln(out, lipgloss.Green.Render("👋 Bye!"))
			return nil
		case menuHelp:
			printInteractiveHelp(out)
			continue
		}

		if choice == menuStructure || choice == menuBoth {
			if err := interactiveStructure(deps, reader, out); err != nil {
				if back, _ := askBackToMenu(reader, out, "Structure generation failed", err); back {
					continue
				}
				return err
			}
		}

		if choice == menuExport || choice == menuBoth {
			if err := interactiveExport(ctx, deps, reader, out); err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Fprintln(out, lipgloss.Yellow.Render("\n⚠️ Interrupted, exiting..."))
					return nil
				}
				if back, _ := askBackToMenu(reader, out, "Export failed", err); back {
					continue
				}
				return err
			}
		}

		fmt.Fprintln(out, lipgloss.Green.Render("✅ Done."))
	}
}

func interactiveStructure(deps *RootDependencies, reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, lipgloss.Info.Render("\n🛠️ Structure snapshot"))
	req := structureRequestFromConfig(deps.Config)

	honor, err := utils.PromptYesNo(reader, "Exclude .gitignore patterns? (.gitignore itself stays listed)", req.HonorGitignore)
	if err != nil {
		return err
	}
	req.HonorGitignore = honor

	extra, err := utils.PromptLine(reader, "Extra exclude globs, space separated", "")
	if err != nil {
		return err
	}
	req.Exclude = append(req.Exclude, strings.Fields(extra)...)

	output, err := utils.PromptLine(reader, "Output name", req.Output)
	if err != nil {
		return err
	}
	req.Output = output

	written, err := handleStructureCommand(deps, req, reader, out)
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintln(out, lipgloss.Gray.Render("🔸 Structure generation skipped."))
	}
	return nil
}

func interactiveExport(ctx context.Context, deps *RootDependencies, reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, lipgloss.Info.Render("\n🛠️ Tiddler export"))

	dryRun, err := utils.PromptYesNo(reader, "Simulate first (dry-run)?", false)
	if err != nil {
		return err
	}

	if _, err := handleExportCommand(ctx, deps, exportRequest{DryRun: dryRun}, out); err != nil {
		return err
	}
	if !dryRun {
		return nil
	}

	runReal, err := utils.PromptYesNo(reader, "Dry-run finished. Run the real export?", true)
	if err != nil || !runReal {
		return err
	}
	_, err = handleExportCommand(ctx, deps, exportRequest{}, out)
	return err
}

func askBackToMenu(reader *bufio.Reader, out io.Writer, what string, cause error) (bool, error) {
	fmt.Fprintln(out, lipgloss.Red.Render(fmt.Sprintf("%s: %v", what, cause)))
	return utils.PromptYesNo(reader, "Back to the menu?", true)
}

func printInteractiveHelp(out io.Writer) {
	help := strings.Join([]string{
		menuStructure + ": write the filtered ASCII tree (estructura.txt by default).",
		menuExport + ": write a JSON tiddler for every file changed since the last export.",
		menuBoth + ": run both steps in order.",
		"",
		"The same steps are available directly as 'repexport structure' and 'repexport export'.",
	}, "\n")
	fmt.Fprintln(out, lipgloss.BoxStyle.Render(help))
}
