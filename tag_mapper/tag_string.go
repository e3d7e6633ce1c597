package tag_mapper

import "strings"

// Label wraps a tag name in TiddlyWiki's [[...]] syntax.
func Label(name string) string {
	return "[[" + name + "]]"
}

// ParseTagString splits a TiddlyWiki tag field into labels. Bracketed labels
// keep their brackets and inner spaces, bare words are split on whitespace.
func ParseTagString(field string) []string {
	var tags []string

	for i := 0; i < len(field); {
		switch {
		case isTagSpace(field[i]):
			i++
		case strings.HasPrefix(field[i:], "[["):
			end := strings.Index(field[i+2:], "]]")
			if end < 0 {
				// unterminated, keep the remainder as one label
				tags = append(tags, strings.TrimSpace(field[i:]))
				i = len(field)
				continue
			}
			next := i + 2 + end + 2
			tags = append(tags, field[i:next])
			i = next
		default:
			j := i
			for j < len(field) && !isTagSpace(field[j]) {
				j++
			}
			tags = append(tags, field[i:j])
			i = j
		}
	}

	return tags
}

// FormatTagList joins labels into a TiddlyWiki tag field.
func FormatTagList(tags []string) string {
	return strings.Join(tags, " ")
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
