// Package render converts a chunk's residual prose into HTML fragments.
//
// This is a best-effort, line-oriented converter for headings, emphasis,
// lists, tables, links, images, and code fences, not a conforming
// Markdown implementation. It runs after directive extraction, so the
// text it sees contains no markers, only prose plus the opaque highlight
// and card sentinels it converts into wrapper markup at the end.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Card carries the parameters of one card block on a slide, indexed by
// the card sentinels the compiler left in the text.
type Card struct {
	Params map[string]string
}

const (
	hlMark    = "\x01"
	hlClose   = "\x01/\x01"
	cardMark  = "\x02"
	cardClose = "\x02/\x02"
)

// CardOpen returns the opening sentinel for card index i.
func CardOpen(i int) string {
	return cardMark + strconv.Itoa(i) + cardMark
}

// CardClose returns the closing card sentinel.
func CardClose() string {
	return cardClose
}

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe    = regexp.MustCompile(`^[*+-]\s+(.*)$`)
	orderedRe   = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	quoteRe     = regexp.MustCompile(`^>\s?(.*)$`)
	tableSepRe  = regexp.MustCompile(`^\|?[\s:|-]+\|?$`)
	imageRe     = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	italicRe    = regexp.MustCompile(`\*([^*\n]+)\*|\b_([^_\n]+)_\b`)
	strikeRe    = regexp.MustCompile(`~~(.+?)~~`)
	codeSpanRe  = regexp.MustCompile("`([^`\n]+)`")
	highlightRe = regexp.MustCompile(hlMark + `(\d+)` + hlMark)
	cardOpenRe  = regexp.MustCompile(cardMark + `(\d+)` + cardMark)
)

// Chunk renders one content chunk to an HTML fragment. cards indexes the
// slide's card blocks for the card sentinels present in the text.
func Chunk(text string, cards []Card) string {
	html := renderLines(text)
	html = finishHighlights(html)
	html = finishCards(html, cards)
	return html
}

// renderLines is the line-oriented markdown pass.
func renderLines(text string) string {
	lines := strings.Split(text, "\n")
	var out strings.Builder

	var para []string
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		out.WriteString("<p>" + inline(strings.Join(para, " ")) + "</p>\n")
		para = para[:0]
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushPara()
			i++

		// A card boundary alone on a line stays outside any paragraph.
		case trimmed == cardClose || cardOpenRe.MatchString(trimmed) && cardOpenRe.ReplaceAllString(trimmed, "") == "":
			flushPara()
			out.WriteString(trimmed + "\n")
			i++

		case strings.HasPrefix(trimmed, "```"):
			flushPara()
			lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			var code []string
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) != "```" {
				code = append(code, lines[i])
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			cls := ""
			if lang != "" {
				cls = fmt.Sprintf(` class="language-%s"`, escapeHTML(lang))
			}
			out.WriteString("<pre><code" + cls + ">" + escapeHTML(strings.Join(code, "\n")) + "</code></pre>\n")

		case headingRe.MatchString(trimmed):
			flushPara()
			m := headingRe.FindStringSubmatch(trimmed)
			level := len(m[1])
			out.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", level, inline(m[2]), level))
			i++

		case quoteRe.MatchString(trimmed):
			flushPara()
			var quoted []string
			for i < len(lines) {
				m := quoteRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				quoted = append(quoted, m[1])
				i++
			}
			out.WriteString("<blockquote><p>" + inline(strings.Join(quoted, " ")) + "</p></blockquote>\n")

		case isTableStart(lines, i):
			flushPara()
			i = renderTable(lines, i, &out)

		case bulletRe.MatchString(trimmed):
			flushPara()
			out.WriteString("<ul>\n")
			for i < len(lines) {
				m := bulletRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				out.WriteString("<li>" + inline(m[1]) + "</li>\n")
				i++
			}
			out.WriteString("</ul>\n")

		case orderedRe.MatchString(trimmed):
			flushPara()
			out.WriteString("<ol>\n")
			for i < len(lines) {
				m := orderedRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				out.WriteString("<li>" + inline(m[1]) + "</li>\n")
				i++
			}
			out.WriteString("</ol>\n")

		default:
			para = append(para, trimmed)
			i++
		}
	}
	flushPara()
	return out.String()
}

// isTableStart reports whether line i begins a table: a pipe row followed
// by a separator row.
func isTableStart(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	row := strings.TrimSpace(lines[i])
	sep := strings.TrimSpace(lines[i+1])
	return strings.Contains(row, "|") && strings.Contains(sep, "-") && tableSepRe.MatchString(sep)
}

// renderTable emits a table starting at line i and returns the index of
// the first line after it.
func renderTable(lines []string, i int, out *strings.Builder) int {
	out.WriteString("<table>\n<thead>\n<tr>")
	for _, cell := range splitRow(lines[i]) {
		out.WriteString("<th>" + inline(cell) + "</th>")
	}
	out.WriteString("</tr>\n</thead>\n<tbody>\n")
	i += 2 // skip header and separator
	for i < len(lines) {
		row := strings.TrimSpace(lines[i])
		if !strings.Contains(row, "|") {
			break
		}
		out.WriteString("<tr>")
		for _, cell := range splitRow(row) {
			out.WriteString("<td>" + inline(cell) + "</td>")
		}
		out.WriteString("</tr>\n")
		i++
	}
	out.WriteString("</tbody>\n</table>\n")
	return i
}

func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	cells := strings.Split(row, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// inline escapes the text and applies inline markup: code spans first so
// emphasis never fires inside them, then images before links (the image
// syntax contains a link), then emphasis.
func inline(text string) string {
	text = escapeHTML(text)
	text = codeSpanRe.ReplaceAllString(text, "<code>$1</code>")
	text = imageRe.ReplaceAllString(text, `<img src="$2" alt="$1">`)
	text = linkRe.ReplaceAllString(text, `<a href="$2">$1</a>`)
	text = boldRe.ReplaceAllStringFunc(text, func(m string) string {
		return "<strong>" + strings.Trim(m, "*_") + "</strong>"
	})
	text = italicRe.ReplaceAllStringFunc(text, func(m string) string {
		return "<em>" + strings.Trim(m, "*_") + "</em>"
	})
	text = strikeRe.ReplaceAllString(text, "<del>$1</del>")
	return text
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// finishHighlights converts highlight sentinels into wrapper spans.
func finishHighlights(html string) string {
	html = highlightRe.ReplaceAllString(html, `<span class="df-highlight" data-highlight="$1">`)
	return strings.ReplaceAll(html, hlClose, "</span>")
}

// finishCards converts card sentinels into card containers in document
// order: a card still open at the end of the fragment auto-closes there,
// and a close with no open in this fragment is dropped.
func finishCards(html string, cards []Card) string {
	if !strings.Contains(html, cardMark) {
		return html
	}
	var out strings.Builder
	depth := 0
	for html != "" {
		next := strings.Index(html, cardMark)
		if next < 0 {
			out.WriteString(html)
			break
		}
		out.WriteString(html[:next])
		html = html[next:]
		if strings.HasPrefix(html, cardClose) {
			if depth > 0 {
				out.WriteString("</div>")
				depth--
			}
			html = html[len(cardClose):]
			continue
		}
		loc := cardOpenRe.FindStringIndex(html)
		if loc == nil || loc[0] != 0 {
			// A bare sentinel byte from user text; drop it.
			html = html[len(cardMark):]
			continue
		}
		m := html[:loc[1]]
		idx, err := strconv.Atoi(strings.Trim(m, cardMark))
		if err == nil && idx < len(cards) {
			out.WriteString(`<div class="df-card"` + cardStyle(cards[idx].Params) + `>`)
		} else {
			out.WriteString(`<div class="df-card">`)
		}
		depth++
		html = html[len(m):]
	}
	for ; depth > 0; depth-- {
		out.WriteString("</div>")
	}
	return out.String()
}

// cardStyle maps card parameters onto a style attribute.
func cardStyle(params map[string]string) string {
	var css []string
	if v, ok := params["bg"]; ok {
		css = append(css, "background:"+v)
	}
	if v, ok := params["color"]; ok {
		css = append(css, "color:"+v)
	}
	if v, ok := params["padding"]; ok {
		css = append(css, "padding:"+v)
	}
	if v, ok := params["shadow"]; ok && v != "false" {
		css = append(css, "box-shadow:var(--df-shadow-"+v+")")
	}
	if len(css) == 0 {
		return ""
	}
	return ` style="` + strings.Join(css, ";") + `"`
}
