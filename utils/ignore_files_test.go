package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileIgnoreSpec(t *testing.T) {
	spec := CompileIgnoreSpec([]string{"# comment", "", "*.log", "build/", "!keep.log", "/only-root.txt"})
	require.NotNil(t, spec)

	assert.True(t, spec.Matches("debug.log"))
	assert.True(t, spec.Matches("nested/trace.log"))
	assert.False(t, spec.Matches("keep.log"))
	assert.True(t, spec.Matches("build/"))
	assert.True(t, spec.Matches("build/out.bin"))
	assert.True(t, spec.Matches("only-root.txt"))
	assert.False(t, spec.Matches("sub/only-root.txt"))
	assert.False(t, spec.Matches("main.go"))

	assert.Nil(t, CompileIgnoreSpec([]string{"# only comments", "   "}))
}

func TestCompileIgnoreSpec_Wildmatch(t *testing.T) {
	spec := CompileIgnoreSpec([]string{"file?.py", "[ab].txt", "report[0-9].csv", "docs/**/draft.md", "tmp/"})
	require.NotNil(t, spec)

	tests := []struct {
		path    string
		ignored bool
	}{
		{"file1.py", true},
		{"src/fileX.py", true},
		{"file.py", false},
		{"file10.py", false},
		{"a.txt", true},
		{"b.txt", true},
		{"c.txt", false},
		{"report7.csv", true},
		{"reportA.csv", false},
		{"docs/draft.md", true},
		{"docs/v1/old/draft.md", true},
		{"other/draft.md", false},
		{"tmp/", true},
		{"tmp", false},
		{"tmp/cache.bin", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ignored, spec.Matches(tt.path), tt.path)
	}
}

func TestLoadGitignoreSpec(t *testing.T) {
	root := t.TempDir()

	spec, err := LoadGitignoreSpec(root)
	require.NoError(t, err)
	assert.Nil(t, spec)
	assert.False(t, IsIgnored(spec, "anything"))

	require.NoError(t, os.WriteFile(filepath.Join(root, GitignoreFile), []byte("secret.env\n"), 0644))
	spec, err = LoadGitignoreSpec(root)
	require.NoError(t, err)
	assert.True(t, IsIgnored(spec, "secret.env"))
	assert.False(t, IsIgnored(spec, "visible.py"))
}

func TestReadPatternFile_Missing(t *testing.T) {
	_, err := ReadPatternFile(filepath.Join(t.TempDir(), "absent"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMatchesGlob(t *testing.T) {
	patterns := []string{"*.log", "docs/", "**/generated/*.go", ".env"}

	assert.True(t, MatchesGlob("debug.log", false, patterns))
	assert.True(t, MatchesGlob("logs/app.log", false, patterns))
	assert.True(t, MatchesGlob("docs", true, patterns))
	assert.False(t, MatchesGlob("docs", false, patterns))
	assert.True(t, MatchesGlob("pkg/generated/types.go", false, patterns))
	assert.True(t, MatchesGlob("config/.env", false, patterns))
	assert.False(t, MatchesGlob("main.go", false, patterns))
}

func TestDefaultExcludePatterns(t *testing.T) {
	for _, rel := range []string{"secret.env", "certs/server.pem", "data/app.sqlite", "lib/native.so"} {
		assert.True(t, MatchesGlob(rel, false, DefaultExcludePatterns), rel)
	}
	for _, rel := range []string{"node_modules", "src/__pycache__", ".git"} {
		assert.True(t, MatchesGlob(rel, true, DefaultExcludePatterns), rel)
	}
	assert.False(t, MatchesGlob("build.go", false, DefaultExcludePatterns))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".env"))
	assert.True(t, IsHidden(".vscode"))
	assert.False(t, IsHidden(".gitignore"))
	assert.False(t, IsHidden(".github"))
	assert.False(t, IsHidden("README.md"))
}
