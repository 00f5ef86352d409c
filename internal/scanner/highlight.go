package scanner

import (
	"strconv"
	"strings"

	"github.com/deckfold/deckfold/internal/models"
)

// Highlight sentinels survive line rendering untouched; the renderer
// converts them into wrapper markup at the end of the pass.
const (
	hlMark  = "\x01"
	hlClose = "\x01/\x01"
)

// HighlightOpen returns the opening sentinel for highlight index i.
func HighlightOpen(i int) string {
	return hlMark + strconv.Itoa(i) + hlMark
}

// HighlightClose returns the closing highlight sentinel.
func HighlightClose() string {
	return hlClose
}

// blockPrefix returns the Markdown block prefix at the start of s, or ""
// when s does not begin with one. Recognized prefixes: `#`..`######`,
// `>`, `*`, `+`, `-` (each followed by a space), and `N.` ordered-list
// markers.
func blockPrefix(s string) string {
	if s == "" {
		return ""
	}
	switch s[0] {
	case '#':
		n := 0
		for n < len(s) && s[n] == '#' {
			n++
		}
		if n <= 6 && n < len(s) && s[n] == ' ' {
			return s[:n+1]
		}
	case '>', '*', '+', '-':
		if len(s) > 1 && s[1] == ' ' {
			return s[:2]
		}
	default:
		if s[0] >= '0' && s[0] <= '9' {
			n := 0
			for n < len(s) && s[n] >= '0' && s[n] <= '9' {
				n++
			}
			if n+1 < len(s) && s[n] == '.' && s[n+1] == ' ' {
				return s[:n+2]
			}
		}
	}
	return ""
}

// ExtractHighlights finds highlight markers `<TEXT>` in a chunk's text,
// assigns them 0-based indexes in document order, and replaces each with
// sentinel-wrapped content. TEXT starting with `/` or `!--` is excluded,
// so closing tags and comment markers pass through. A Markdown block
// prefix at the start of TEXT stays outside the sentinels so the line
// renderer still sees it at line start.
func ExtractHighlights(text string) (string, []models.HighlightSpan) {
	var spans []models.HighlightSpan
	var out strings.Builder
	out.Grow(len(text))

	i := 0
	for {
		open := strings.IndexByte(text[i:], '<')
		if open < 0 {
			out.WriteString(text[i:])
			break
		}
		open += i
		out.WriteString(text[i:open])

		rest := text[open+1:]
		if rest == "" || rest[0] == '/' || strings.HasPrefix(rest, "!--") {
			out.WriteByte('<')
			i = open + 1
			continue
		}
		closeIdx := strings.IndexAny(rest, "<>\n")
		if closeIdx < 0 || rest[closeIdx] != '>' || closeIdx == 0 {
			out.WriteByte('<')
			i = open + 1
			continue
		}

		content := rest[:closeIdx]
		prefix := blockPrefix(content)
		body := content[len(prefix):]
		if strings.TrimSpace(body) == "" {
			out.WriteByte('<')
			i = open + 1
			continue
		}

		idx := len(spans)
		spans = append(spans, models.HighlightSpan{Index: idx, Text: body, Prefix: prefix})
		out.WriteString(prefix)
		out.WriteString(HighlightOpen(idx))
		out.WriteString(body)
		out.WriteString(hlClose)
		i = open + 1 + closeIdx + 1
	}

	return out.String(), spans
}
