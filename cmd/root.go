package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/repexport/repexport/config"
	"github.com/repexport/repexport/constants/lipgloss"
	"github.com/repexport/repexport/utils"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "repexport",
	Short: "Snapshot a repository tree and export changed files as TiddlyWiki tiddlers",
	Long: `repexport keeps a TiddlyWiki in step with a source repository.

'structure' writes a filtered ASCII tree of the repository, 'export' writes one
JSON tiddler per file whose content changed since the last export, and
'interactive' walks through both with prompts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// RootDependencies is what every subcommand needs to do its work.
type RootDependencies struct {
	Cwd    string
	Root   string
	Config *config.Config
	Logger *pterm.Logger
}

func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	cfg, err := config.LoadConfigs(cmd, cwd)
	if err != nil {
		return nil, err
	}

	root, err := utils.ResolveRoot(cfg.Root, cwd)
	if err != nil {
		return nil, err
	}

	logger := utils.NewLogger(cfg.Verbosity, os.Stderr)
	logger.Debug("configuration loaded", logger.Args("root", root, "config_file", cfg.ConfigFile))

	return &RootDependencies{
		Cwd:    cwd,
		Root:   root,
		Config: cfg,
		Logger: logger,
	}, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
