package tag_mapper

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Title(t *testing.T) {
	root := filepath.Join(t.TempDir(), "repo")
	resolver := NewResolver(root, nil)

	assert.Equal(t, "-src_utils_helpers.py", resolver.Title(filepath.Join(root, "src", "utils", "helpers.py")))
	assert.Equal(t, "-README.md", resolver.Title(filepath.Join(root, "README.md")))
	assert.Equal(t, "-src_app.go", resolver.Title("src/app.go"))
	assert.Equal(t, `-win_style_path.txt`, resolver.Title(`win\style\path.txt`))

	// outside the root only the base name is kept
	outside := filepath.Join(filepath.Dir(root), "elsewhere", "notes.md")
	assert.Equal(t, "-notes.md", resolver.Title(outside))
}

func TestResolver_TagsFromExtension(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root, nil)

	tags := resolver.Tags(filepath.Join(root, "src", "main.py"))

	assert.Equal(t, []string{"[[⚙️ Python]]", "[[-src_main.py]]", GroupTag}, tags)
}

func TestResolver_SpecialFilenameBeatsExtension(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root, nil)

	tags := resolver.Tags(filepath.Join(root, "requirements.txt"))
	assert.Equal(t, "[[⚙️ Requirements]]", tags[0])

	tags = resolver.Tags(filepath.Join(root, ".gitignore"))
	assert.Equal(t, "[[⚙️ Gitignore]]", tags[0])
}

func TestResolver_FallbackTagIsUndecorated(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root, nil)

	tags := resolver.Tags(filepath.Join(root, "data", "blob.xyz"))

	assert.Equal(t, []string{UnclassifiedTag, "[[-data_blob.xyz]]", GroupTag}, tags)
	assert.NotContains(t, tags[0], TypeMarker)
}

func TestResolver_OverrideIsVerbatim(t *testing.T) {
	root := t.TempDir()
	custom := []string{"[[--- Codigo]]", "[[Python]]", "[[--📘 Documentacion]]"}
	resolver := NewResolver(root, NewOverrides(map[string][]string{
		"-docs_guide.py": custom,
	}))

	assert.Equal(t, custom, resolver.Tags(filepath.Join(root, "docs", "guide.py")))

	// other files still use the tables
	assert.Equal(t, "[[⚙️ Python]]", resolver.Tags(filepath.Join(root, "other.py"))[0])
}

func TestResolver_TagsEndWithTitleAndGroup(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root, nil)

	for _, name := range []string{"a.go", "Makefile", "LICENSE", "x.unknown", "style.CSS"} {
		tags := resolver.Tags(filepath.Join(root, name))
		assert.Len(t, tags, 3, name)
		assert.Equal(t, Label(resolver.Title(filepath.Join(root, name))), tags[1], name)
		assert.Equal(t, GroupTag, tags[2], name)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.py":          "python",
		"app.GO":           "go",
		".gitignore":       "gitignore",
		"Makefile":         "makefile",
		"config.toml":      "toml",
		"notes.txt":        "txt",
		"requirements.txt": "text",
		"image.bin":        "text",
		"no_extension":     "text",
	}

	for name, want := range cases {
		assert.Equal(t, want, DetectLanguage(filepath.Join("repo", name)), name)
	}
}

func TestParseTagString(t *testing.T) {
	tags := ParseTagString("[[--- Codigo]] [[Python]]  Plain\t[[--📘 Documentacion]]")

	assert.Equal(t, []string{"[[--- Codigo]]", "[[Python]]", "Plain", "[[--📘 Documentacion]]"}, tags)
	assert.Equal(t, "[[--- Codigo]] [[Python]] Plain [[--📘 Documentacion]]", FormatTagList(tags))
	assert.Empty(t, ParseTagString("   "))
	assert.Equal(t, []string{"[[open ended"}, ParseTagString("[[open ended"))
}
