package scanner

import (
	"strconv"
	"strings"
)

// Protected is text whose fenced code blocks and inline code spans have
// been swapped for opaque placeholders. Directive and highlight scanning
// runs on Protected.Text, guaranteeing marker syntax inside code is never
// interpreted; Restore puts the original spans back afterward.
type Protected struct {
	Text  string
	spans map[string]string
}

const placeholderDelim = "\x00"

func placeholder(n int) string {
	return placeholderDelim + strconv.Itoa(n) + placeholderDelim
}

// Protect replaces fenced code blocks, then inline code spans, with
// placeholders. Placeholders are unique within the document and contain
// no characters any grammar matches.
func Protect(text string) *Protected {
	p := &Protected{spans: make(map[string]string)}
	n := 0

	// Fenced blocks first, line-oriented. An unterminated fence runs to
	// the end of the document.
	var out strings.Builder
	lines := strings.SplitAfter(text, "\n")
	var fence []string
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inFence && strings.HasPrefix(trimmed, "```") {
			inFence = true
			fence = fence[:0]
			fence = append(fence, line)
			continue
		}
		if inFence {
			fence = append(fence, line)
			if trimmed == "```" {
				key := placeholder(n)
				n++
				p.spans[key] = strings.Join(fence, "")
				out.WriteString(key)
				inFence = false
			}
			continue
		}
		out.WriteString(line)
	}
	if inFence {
		key := placeholder(n)
		n++
		p.spans[key] = strings.Join(fence, "")
		out.WriteString(key)
	}

	// Inline code spans in the remaining prose.
	withFences := out.String()
	var final strings.Builder
	i := 0
	for {
		open := strings.IndexByte(withFences[i:], '`')
		if open < 0 {
			final.WriteString(withFences[i:])
			break
		}
		open += i
		closeIdx := strings.IndexByte(withFences[open+1:], '`')
		if closeIdx < 0 {
			final.WriteString(withFences[i:])
			break
		}
		closeIdx += open + 1
		if strings.Contains(withFences[open:closeIdx], "\n") {
			final.WriteString(withFences[i : open+1])
			i = open + 1
			continue
		}
		final.WriteString(withFences[i:open])
		key := placeholder(n)
		n++
		p.spans[key] = withFences[open : closeIdx+1]
		final.WriteString(key)
		i = closeIdx + 1
	}

	p.Text = final.String()
	return p
}

// Restore replaces every placeholder present in text with its original
// span. text may be any substring of the protected document, such as a
// single chunk.
func (p *Protected) Restore(text string) string {
	if len(p.spans) == 0 || !strings.Contains(text, placeholderDelim) {
		return text
	}
	for key, span := range p.spans {
		text = strings.ReplaceAll(text, key, span)
	}
	return text
}
