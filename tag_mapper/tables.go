package tag_mapper

// Fixed labels of the exported corpus.
const (
	TitlePrefix     = "-"
	GroupTag        = "[[--- Codigo]]"
	UnclassifiedTag = "[[--- 🧬 Por Clasificar]]"
	TypeMarker      = "⚙️ "
	DefaultLanguage = "text"
)

// ExtensionTags maps a lowercased extension to its base label.
var ExtensionTags = map[string]string{
	".py":   "Python",
	".go":   "Go",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".sh":   "Bash",
	".ps1":  "PowerShell",
	".bat":  "Batch",
	".md":   "Markdown",
	".txt":  "Text",
	".json": "JSON",
	".yml":  "YAML",
	".yaml": "YAML",
	".html": "HTML",
	".css":  "CSS",
	".sql":  "SQL",
}

// SpecialFilenameTags take precedence over ExtensionTags.
var SpecialFilenameTags = map[string]string{
	".gitignore":       "Gitignore",
	"LICENSE":          "License",
	"Makefile":         "Makefile",
	"Dockerfile":       "Docker",
	"requirements.txt": "Requirements",
}

// ExtensionLanguages maps a lowercased extension to a fenced-block language.
var ExtensionLanguages = map[string]string{
	".py":   "python",
	".go":   "go",
	".js":   "javascript",
	".ts":   "typescript",
	".sh":   "bash",
	".ps1":  "powershell",
	".bat":  "batch",
	".md":   "markdown",
	".txt":  "txt",
	".json": "json",
	".yml":  "yaml",
	".yaml": "yaml",
	".html": "html",
	".css":  "css",
	".sql":  "sql",
	".toml": "toml",
	".ini":  "ini",
	".cfg":  "ini",
}

// SpecialFilenameLanguages take precedence over ExtensionLanguages.
var SpecialFilenameLanguages = map[string]string{
	".gitignore":       "gitignore",
	"LICENSE":          "text",
	"Makefile":         "makefile",
	"Dockerfile":       "dockerfile",
	"requirements.txt": "text",
}
