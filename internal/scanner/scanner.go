// Package scanner extracts inline directives from annotated text.
//
// A directive is an HTML-comment marker carrying a name and an optional
// parameter string: `<!-- name: key=value, key2="v,2" -->`. Scan walks the
// text once, left to right, collecting every marker that fully matches the
// requested grammar and removing it from the residual text. Constructs that
// resemble a marker but do not fully match are left untouched, never
// partially consumed. Everything outside matched spans is preserved
// verbatim and in order.
package scanner

import (
	"strings"

	"github.com/deckfold/deckfold/internal/models"
)

// Grammar selects which markers a Scan pass matches and what, if
// anything, replaces each matched span in the residual text.
type Grammar struct {
	Open        string // opening token, e.g. "<!--"
	Close       string // closing token, e.g. "-->"
	Name        string // exact directive name; empty matches any name
	NamePrefix  string // when set, match any name beginning with this prefix
	Replacement string // substituted for each matched span; "" removes the span
}

// CommentGrammar returns the standard HTML-comment marker grammar for an
// exact directive name.
func CommentGrammar(name string) Grammar {
	return Grammar{Open: "<!--", Close: "-->", Name: name}
}

// nameChar reports whether c may appear in a directive name.
func nameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-'
}

// Scan performs one left-to-right pass over text, extracting every
// directive that matches g. It returns the matched directives in document
// order and the residual text with each matched span replaced by
// g.Replacement. Directive spans are recorded in the coordinates of the
// input text, so reinserting each Source at its SpanStart reconstructs
// the input exactly.
func Scan(text string, g Grammar) ([]models.Directive, string) {
	var directives []models.Directive
	var residual strings.Builder
	residual.Grow(len(text))

	i := 0
	for {
		idx := strings.Index(text[i:], g.Open)
		if idx < 0 {
			residual.WriteString(text[i:])
			break
		}
		idx += i
		residual.WriteString(text[i:idx])

		name, rawParams, end, ok := parseMarker(text, idx, g)
		if !ok {
			// Not a complete marker. Emit the opening token literally and
			// keep scanning after it so nothing is partially consumed.
			residual.WriteString(g.Open)
			i = idx + len(g.Open)
			continue
		}
		if !nameMatches(name, g) {
			// A complete marker for some other grammar. Pass it through
			// whole; a later pass with its own grammar may claim it.
			residual.WriteString(text[idx:end])
			i = end
			continue
		}

		directives = append(directives, models.Directive{
			Name:      name,
			RawParams: rawParams,
			SpanStart: idx,
			SpanEnd:   end,
			Source:    text[idx:end],
		})
		residual.WriteString(g.Replacement)
		i = end
	}

	return directives, residual.String()
}

// parseMarker parses one marker starting at the opening token at start.
// It returns the directive name, the raw parameter string, and the index
// one past the closing token. ok is false when the construct is not a
// complete marker.
func parseMarker(text string, start int, g Grammar) (name, rawParams string, end int, ok bool) {
	j := start + len(g.Open)
	for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
		j++
	}
	nameStart := j
	if j < len(text) && text[j] == '@' {
		j++
	}
	for j < len(text) && nameChar(text[j]) {
		j++
	}
	if j == nameStart {
		return "", "", 0, false
	}
	name = text[nameStart:j]

	closeIdx := strings.Index(text[j:], g.Close)
	if closeIdx < 0 {
		return "", "", 0, false
	}
	closeIdx += j
	// Markers stay on one line; a closing token on a later line means the
	// construct is not a marker.
	if strings.Contains(text[j:closeIdx], "\n") {
		return "", "", 0, false
	}

	rest := strings.TrimSpace(text[j:closeIdx])
	if rest != "" {
		// Params follow after `:`. A `,` works too, for markers whose
		// positional name is omitted, as in `step, duration=500`.
		if rest[0] != ':' && rest[0] != ',' {
			return "", "", 0, false
		}
		rawParams = strings.TrimSpace(rest[1:])
	}
	return name, rawParams, closeIdx + len(g.Close), true
}

func nameMatches(name string, g Grammar) bool {
	if g.NamePrefix != "" {
		return strings.HasPrefix(name, g.NamePrefix) && len(name) > len(g.NamePrefix)
	}
	if g.Name != "" {
		return name == g.Name
	}
	return true
}
