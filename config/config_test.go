package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	InitFlags(cmd)
	cmd.Flags().String("hash-algorithm", DefaultConfig.Export.HashAlgorithm, "")
	cmd.Flags().Bool("prune", DefaultConfig.Export.Prune, "")
	cmd.Flags().StringArrayP("exclude", "e", nil, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfigs_Defaults(t *testing.T) {
	cwd := t.TempDir()

	cfg, err := LoadConfigs(newCommand(t), cwd)
	require.NoError(t, err)

	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, "estructura.txt", cfg.Structure.Output)
	assert.Equal(t, filepath.Join("rep-export", "tiddlers-export"), cfg.Export.OutputDir)
	assert.Equal(t, filepath.Join("rep-export", ".hashes.json"), cfg.Export.HashFile)
	assert.Equal(t, filepath.Join("rep-export", "tiddler_tag_doc"), cfg.Export.TagDir)
	assert.Equal(t, "sha1", cfg.Export.HashAlgorithm)
	assert.True(t, cfg.Export.Prune)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfigs_FileEnvAndFlags(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, ConfigName+".yml"), []byte(`
theme: monokai
structure:
  output: tree.txt
  honor_gitignore: true
export:
  hash_algorithm: xxh3
  prune: false
`), 0644))

	t.Setenv("REPEXPORT_STRUCTURE_OUTPUT", "from-env.txt")

	cfg, err := LoadConfigs(newCommand(t, "--hash-algorithm", "SHA1", "-vv", "-e", "*.log"), cwd)
	require.NoError(t, err)

	assert.Equal(t, "monokai", cfg.Theme)
	assert.True(t, cfg.Structure.HonorGitignore)
	assert.Equal(t, "from-env.txt", cfg.Structure.Output)
	assert.Equal(t, "sha1", cfg.Export.HashAlgorithm)
	assert.False(t, cfg.Export.Prune)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, []string{"*.log"}, cfg.Structure.Exclude)
	assert.Equal(t, filepath.Join(cwd, ConfigName+".yml"), cfg.ConfigFile)
}

func TestLoadConfigs_ExplicitFile(t *testing.T) {
	cwd := t.TempDir()
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"export": {"tag_dir": "tags"}}`), 0644))

	cfg, err := LoadConfigs(newCommand(t, "--config", path), cwd)
	require.NoError(t, err)
	assert.Equal(t, "tags", cfg.Export.TagDir)

	_, err = LoadConfigs(newCommand(t, "--config", filepath.Join(cwd, "missing.yml")), cwd)
	assert.Error(t, err)
}

func TestLoadConfigs_DotEnv(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, ".env"), []byte("REPEXPORT_THEME=github\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("REPEXPORT_THEME") })

	cfg, err := LoadConfigs(newCommand(t), cwd)
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.Theme)
}

func TestLoadConfigs_RejectsUnknownAlgorithm(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadConfigs(newCommand(t, "--hash-algorithm", "md5"), cwd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestResolvePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	abs := filepath.Join(string(filepath.Separator), "elsewhere", "x")

	assert.Equal(t, filepath.Join(root, "estructura.txt"), ResolvePath(root, "estructura.txt"))
	assert.Equal(t, abs, ResolvePath(root, abs))
	assert.Empty(t, ResolvePath(root, ""))
}
