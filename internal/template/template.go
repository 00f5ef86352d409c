// Package template implements the small interpreter behind reusable
// components: variable substitution, conditionals, equality and ordering
// tests, and bounded loops.
//
// Expansion is a fixed sequence of passes over the text, in this order:
// repeat, eq, neq, if/else, gt, lt, then plain variable substitution.
// Each pass fully resolves its construct kind, and every construct body
// is reprocessed recursively through Expand with the extended variable
// context, so constructs nest to any depth. Later passes never re-open
// text a handler already emitted as literal output.
package template

import (
	"strconv"
	"strings"
)

// Expand expands tmpl against vars and returns the result. Expansion is
// a pure function of its inputs: the only implicit state is the loop
// bindings `$i` and `$i0`, which are scoped to each {{#repeat}} body.
// An unknown plain variable is left as its literal placeholder.
func Expand(tmpl string, vars map[string]string) string {
	out := expandBlocks(tmpl, "repeat", vars, evalRepeat)
	out = expandBlocks(out, "eq", vars, func(args, body string, v map[string]string) string {
		return evalEquality(args, body, v, true)
	})
	out = expandBlocks(out, "neq", vars, func(args, body string, v map[string]string) string {
		return evalEquality(args, body, v, false)
	})
	out = expandBlocks(out, "if", vars, evalIf)
	out = expandBlocks(out, "gt", vars, func(args, body string, v map[string]string) string {
		return evalCompare(args, body, v, 1)
	})
	out = expandBlocks(out, "lt", vars, func(args, body string, v map[string]string) string {
		return evalCompare(args, body, v, -1)
	})
	return substituteVars(out, vars)
}

// expandBlocks resolves every {{#kind args}}body{{/kind}} block of one
// construct kind, honoring nesting of the same kind when pairing the
// closing tag. A dangling opener without a closer is left untouched.
func expandBlocks(s, kind string, vars map[string]string, eval func(args, body string, vars map[string]string) string) string {
	openTag := "{{#" + kind
	closeTag := "{{/" + kind + "}}"

	var out strings.Builder
	for {
		start := strings.Index(s, openTag)
		if start < 0 {
			out.WriteString(s)
			return out.String()
		}
		argsEnd := strings.Index(s[start:], "}}")
		if argsEnd < 0 {
			out.WriteString(s)
			return out.String()
		}
		argsEnd += start
		args := strings.TrimSpace(s[start+len(openTag) : argsEnd])
		bodyStart := argsEnd + 2

		bodyEnd, end, ok := matchClose(s, bodyStart, openTag, closeTag)
		if !ok {
			// No closing tag; emit through the opener and keep going so
			// the rest of the template still expands.
			out.WriteString(s[:bodyStart])
			s = s[bodyStart:]
			continue
		}

		out.WriteString(s[:start])
		out.WriteString(eval(args, s[bodyStart:bodyEnd], vars))
		s = s[end:]
	}
}

// matchClose finds the close tag paired with the opener whose body starts
// at bodyStart, counting nested openers of the same kind.
func matchClose(s string, bodyStart int, openTag, closeTag string) (bodyEnd, end int, ok bool) {
	depth := 1
	i := bodyStart
	for depth > 0 {
		nextOpen := strings.Index(s[i:], openTag)
		nextClose := strings.Index(s[i:], closeTag)
		if nextClose < 0 {
			return 0, 0, false
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			i += nextOpen + len(openTag)
			continue
		}
		depth--
		if depth == 0 {
			return i + nextClose, i + nextClose + len(closeTag), true
		}
		i += nextClose + len(closeTag)
	}
	return 0, 0, false
}

// evalRepeat instantiates the body N times with 1-based `$i` and 0-based
// `$i0` bound per iteration. N comes from a literal integer or a
// variable; unresolvable or non-positive N yields empty output.
func evalRepeat(args, body string, vars map[string]string) string {
	n, ok := resolveInt(args, vars)
	if !ok || n <= 0 {
		return ""
	}
	var out strings.Builder
	for i := 1; i <= n; i++ {
		local := withBindings(vars, map[string]string{
			"$i":  strconv.Itoa(i),
			"$i0": strconv.Itoa(i - 1),
		})
		out.WriteString(Expand(body, local))
	}
	return out.String()
}

// evalEquality emits the body when vars[key] equals (or, for neq, does
// not equal) the literal. A missing key compares as the empty string.
func evalEquality(args, body string, vars map[string]string, wantEqual bool) string {
	key, literal := splitKeyLiteral(args)
	actual := vars[key]
	if (actual == literal) == wantEqual {
		return Expand(body, vars)
	}
	return ""
}

// evalIf emits the first branch when the key is truthy, the optional
// {{#else}} branch otherwise. Truthy means present and not "", "0", or
// "false".
func evalIf(args, body string, vars map[string]string) string {
	thenBody, elseBody := splitElse(body)
	v, ok := vars[args]
	if ok && v != "" && v != "0" && v != "false" {
		return Expand(thenBody, vars)
	}
	return Expand(elseBody, vars)
}

// evalCompare handles gt (dir > 0) and lt (dir < 0). A missing key
// coerces to 0; an unresolvable or non-numeric comparator makes the
// condition false, never negative.
func evalCompare(args, body string, vars map[string]string, dir int) string {
	key, literal := splitKeyLiteral(args)
	left := 0.0
	if v, ok := vars[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			left = f
		}
	}
	right, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		if v, ok := vars[literal]; ok {
			right, err = strconv.ParseFloat(v, 64)
		}
		if err != nil {
			return ""
		}
	}
	if (dir > 0 && left > right) || (dir < 0 && left < right) {
		return Expand(body, vars)
	}
	return ""
}

// splitElse splits an if-body at the first {{#else}} that is not inside
// a nested if block.
func splitElse(body string) (thenBody, elseBody string) {
	depth := 0
	i := 0
	for i < len(body) {
		switch {
		case strings.HasPrefix(body[i:], "{{#if"):
			depth++
			i += len("{{#if")
		case strings.HasPrefix(body[i:], "{{/if}}"):
			depth--
			i += len("{{/if}}")
		case depth == 0 && strings.HasPrefix(body[i:], "{{#else}}"):
			return body[:i], body[i+len("{{#else}}"):]
		default:
			i++
		}
	}
	return body, ""
}

// splitKeyLiteral splits "key literal" construct arguments. The literal
// may be quoted to include spaces; quotes are stripped.
func splitKeyLiteral(args string) (key, literal string) {
	sp := strings.IndexAny(args, " \t")
	if sp < 0 {
		return args, ""
	}
	key = args[:sp]
	literal = strings.TrimSpace(args[sp+1:])
	if len(literal) >= 2 {
		if q := literal[0]; (q == '"' || q == '\'') && literal[len(literal)-1] == q {
			literal = literal[1 : len(literal)-1]
		}
	}
	return key, literal
}

// resolveInt resolves a construct argument as a literal integer or the
// integer value of a variable.
func resolveInt(arg string, vars map[string]string) (int, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		return n, true
	}
	if v, ok := vars[arg]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// withBindings copies vars and overlays extra bindings.
func withBindings(vars, extra map[string]string) map[string]string {
	local := make(map[string]string, len(vars)+len(extra))
	for k, v := range vars {
		local[k] = v
	}
	for k, v := range extra {
		local[k] = v
	}
	return local
}

// varNameChar reports whether c may appear in a plain variable name.
func varNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-' || c == '.' || c == '$'
}

// substituteVars replaces {{name}} with the variable's value. A missing
// variable keeps its literal placeholder, which aids debugging.
func substituteVars(s string, vars map[string]string) string {
	var out strings.Builder
	out.Grow(len(s))
	i := 0
	for {
		start := strings.Index(s[i:], "{{")
		if start < 0 {
			out.WriteString(s[i:])
			return out.String()
		}
		start += i
		j := start + 2
		nameStart := j
		for j < len(s) && varNameChar(s[j]) {
			j++
		}
		if j == nameStart || j+1 >= len(s) || s[j] != '}' || s[j+1] != '}' {
			out.WriteString(s[i : start+2])
			i = start + 2
			continue
		}
		name := s[nameStart:j]
		if v, ok := vars[name]; ok {
			out.WriteString(s[i:start])
			out.WriteString(v)
		} else {
			out.WriteString(s[i : j+2])
		}
		i = j + 2
	}
}
