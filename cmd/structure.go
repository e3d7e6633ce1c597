package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repexport/repexport/config"
	"github.com/repexport/repexport/constants/lipgloss"
	"github.com/repexport/repexport/structure_generator"
	"github.com/repexport/repexport/utils"
	"github.com/spf13/cobra"
)

// structureCmd represents the structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Write a filtered ASCII tree of the repository",
	Long: `The 'structure' command renders the repository as an ASCII tree, leaving out
version-control metadata, caches, build output, secrets and hidden entries, and
writes it atomically to the snapshot file (estructura.txt by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")

		req := structureRequestFromConfig(rootDependencies.Config)
		req.DryRun = dryRun
		req.Force = force

		_, err = handleStructureCommand(rootDependencies, req, bufio.NewReader(os.Stdin), os.Stdout)
		return err
	},
}

func init() {
	structureCmd.Flags().StringP("output", "o", config.DefaultConfig.Structure.Output, "Snapshot file, relative to the repository root")
	structureCmd.Flags().StringArrayP("exclude", "e", nil, "Extra glob to exclude (repeatable)")
	structureCmd.Flags().String("exclude-from", "", "File with globs to exclude, one per line")
	structureCmd.Flags().Bool("honor-gitignore", false, "Also exclude entries matched by .gitignore")
	structureCmd.Flags().Bool("dry-run", false, "Print the tree without writing it")
	structureCmd.Flags().BoolP("force", "f", false, "Overwrite the snapshot without asking")

	rootCmd.AddCommand(structureCmd)
}

type structureRequest struct {
	Output         string
	Exclude        []string
	ExcludeFrom    string
	HonorGitignore bool
	DryRun         bool
	Force          bool
}

func structureRequestFromConfig(cfg *config.Config) structureRequest {
	return structureRequest{
		Output:         cfg.Structure.Output,
		Exclude:        append([]string(nil), cfg.Structure.Exclude...),
		ExcludeFrom:    cfg.Structure.ExcludeFrom,
		HonorGitignore: cfg.Structure.HonorGitignore,
	}
}

// snapshotName is the snapshot path relative to root, as matched by ignore rules.
func snapshotName(root, output string) string {
	path := config.ResolvePath(root, output)
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// handleStructureCommand renders and writes the snapshot. It reports whether the
// file was written; a declined overwrite is not an error.
func handleStructureCommand(deps *RootDependencies, req structureRequest, reader *bufio.Reader, out io.Writer) (bool, error) {
	logger := deps.Logger

	var spec utils.IgnoreSpec
	if req.HonorGitignore {
		loaded, err := utils.LoadGitignoreSpec(deps.Root)
		if err != nil {
			return false, err
		}
		spec = loaded
	}

	excludes := append([]string(nil), req.Exclude...)
	if req.ExcludeFrom != "" {
		extra, err := structure_generator.LoadExcludeFile(config.ResolvePath(deps.Cwd, req.ExcludeFrom), logger)
		if err != nil {
			return false, err
		}
		excludes = append(excludes, extra...)
	}

	generator := structure_generator.NewGenerator(deps.Root, structure_generator.Options{
		ExcludePatterns: excludes,
		HonorGitignore:  req.HonorGitignore,
		IgnoreSpec:      spec,
		SnapshotName:    snapshotName(deps.Root, req.Output),
	}, logger)

	lines, err := generator.Render()
	if err != nil {
		return false, err
	}

	if req.DryRun {
		fmt.Fprintln(out, strings.Join(lines, "\n"))
		fmt.Fprintln(out, lipgloss.Gray.Render("[dry-run] nothing written"))
		return false, nil
	}

	outputPath := config.ResolvePath(deps.Root, req.Output)
	if !req.Force {
		ok, err := utils.ConfirmOverwrite(reader, outputPath)
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(out, lipgloss.Yellow.Render("Operation cancelled by user."))
			return false, nil
		}
	}

	if err := generator.Write(outputPath, lines); err != nil {
		return false, err
	}
	fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("📂 Structure written to: %s", outputPath)))
	return true, nil
}
