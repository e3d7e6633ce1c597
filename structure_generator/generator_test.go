package structure_generator

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/repexport/repexport/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0644))
}

func newRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{
		"README.md",
		"src/main.py",
		"src/utils/helpers.py",
		"docs/guide.md",
		"debug.log",
		".env",
		"secret.env",
		"server.key",
		".git/HEAD",
		"node_modules/pkg/index.js",
		"__pycache__/main.cpython.pyc",
		".github/workflows/ci.yml",
		".hidden/notes.txt",
		".gitignore",
	} {
		touch(t, root, rel)
	}
	return root
}

func TestRender_TreeShape(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.txt")
	touch(t, root, "A/x.go")
	touch(t, root, "A/y.go")
	touch(t, root, "c/z.md")

	lines, err := NewGenerator(root, Options{}, utils.DiscardLogger()).Render()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"├── A",
		"│   ├── x.go",
		"│   └── y.go",
		"├── b.txt",
		"└── c",
		"    └── z.md",
	}, lines)
}

func TestRender_DefaultExclusions(t *testing.T) {
	root := newRepo(t)

	lines, err := NewGenerator(root, Options{}, utils.DiscardLogger()).Render()
	require.NoError(t, err)

	joined := join(lines)
	for _, hidden := range []string{".env", "secret.env", "server.key", ".git", "node_modules", "__pycache__", ".hidden"} {
		assert.NotContains(t, joined, " "+hidden+"\n", hidden)
	}
	for _, shown := range []string{"README.md", "main.py", "helpers.py", ".github", "ci.yml", ".gitignore", "debug.log"} {
		assert.Contains(t, joined, " "+shown+"\n", shown)
	}
}

func TestRender_UserGlobs(t *testing.T) {
	root := newRepo(t)

	lines, err := NewGenerator(root, Options{ExcludePatterns: []string{"*.log", "docs/"}}, utils.DiscardLogger()).Render()
	require.NoError(t, err)

	joined := join(lines)
	assert.NotContains(t, joined, "debug.log")
	assert.NotContains(t, joined, "docs")
	assert.NotContains(t, joined, "guide.md")
	assert.Contains(t, joined, "README.md")
}

func TestRender_HonorGitignore(t *testing.T) {
	root := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nsrc/utils/\n.gitignore\nestructura.txt\n"), 0644))
	touch(t, root, "estructura.txt")

	spec, err := utils.LoadGitignoreSpec(root)
	require.NoError(t, err)

	lines, err := NewGenerator(root, Options{HonorGitignore: true, IgnoreSpec: spec}, utils.DiscardLogger()).Render()
	require.NoError(t, err)

	joined := join(lines)
	assert.NotContains(t, joined, "debug.log")
	assert.NotContains(t, joined, "helpers.py")
	assert.Contains(t, joined, "main.py")
	assert.Contains(t, joined, ".gitignore")
	assert.Contains(t, joined, "estructura.txt")

	// without the flag .gitignore is not consulted
	lines, err = NewGenerator(root, Options{IgnoreSpec: spec}, utils.DiscardLogger()).Render()
	require.NoError(t, err)
	assert.Contains(t, join(lines), "debug.log")
}

func TestRender_SymlinkedDirectoryIsNotEntered(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	touch(t, root, "real/inner.go")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	lines, err := NewGenerator(root, Options{}, utils.DiscardLogger()).Render()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"├── link",
		"└── real",
		"    └── inner.go",
	}, lines)
}

func TestRender_UnreadableDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs unix permissions and a non-root user")
	}
	root := t.TempDir()
	touch(t, root, "a.txt")
	touch(t, root, "locked/secret.txt")
	touch(t, root, "z/inner.go")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	lines, err := NewGenerator(root, Options{}, utils.DiscardLogger()).Render()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"├── a.txt",
		"├── locked",
		"└── z",
		"    └── inner.go",
	}, lines)
}

func TestRender_MissingRoot(t *testing.T) {
	_, err := NewGenerator(filepath.Join(t.TempDir(), "nope"), Options{}, utils.DiscardLogger()).Render()
	assert.Error(t, err)
}

func TestWrite_ReplacesSnapshot(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, DefaultSnapshotName)
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0644))

	generator := NewGenerator(root, Options{}, utils.DiscardLogger())
	require.NoError(t, generator.Write(dest, []string{"├── a", "└── b"}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "├── a\n└── b", string(data))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadExcludeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "excludes.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n*.log\n\n  tmp/  \n"), 0644))

	patterns, err := LoadExcludeFile(path, utils.DiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"*.log", "tmp/"}, patterns)

	patterns, err = LoadExcludeFile(filepath.Join(dir, "absent.txt"), utils.DiscardLogger())
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func join(lines []string) string {
	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	return out
}
