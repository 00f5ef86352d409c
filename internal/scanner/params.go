package scanner

import (
	"sort"
	"strings"
)

// ParseParams turns a raw directive parameter string like
// `bg="rgba(0,0,0,0.5)", shadow=lg, wide` into a key→value map.
//
// Per pair: the key is a run of [A-Za-z0-9_-]; the value is a single- or
// double-quoted string (content up to the matching quote, no escape
// processing) or an unquoted run of non-comma, non-whitespace characters.
// A key with no `=` is a boolean flag with value "true". Duplicate keys:
// last occurrence wins. An empty string yields an empty map.
func ParseParams(raw string) map[string]string {
	params := make(map[string]string)
	i := 0
	n := len(raw)
	for i < n {
		// Skip separators and whitespace between pairs.
		for i < n && (raw[i] == ',' || raw[i] == ' ' || raw[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}
		keyStart := i
		for i < n && nameChar(raw[i]) {
			i++
		}
		if i == keyStart {
			// Not a key character. Drop it and resync at the next pair.
			i++
			continue
		}
		key := raw[keyStart:i]

		if i >= n || raw[i] != '=' {
			params[key] = "true"
			continue
		}
		i++ // consume '='

		if i < n && (raw[i] == '"' || raw[i] == '\'') {
			quote := raw[i]
			i++
			valStart := i
			end := strings.IndexByte(raw[i:], quote)
			if end < 0 {
				// Unterminated quote runs to the end of the string.
				params[key] = raw[valStart:]
				break
			}
			params[key] = raw[valStart : valStart+end]
			i = valStart + end + 1
			continue
		}

		valStart := i
		for i < n && raw[i] != ',' && raw[i] != ' ' && raw[i] != '\t' {
			i++
		}
		params[key] = raw[valStart:i]
	}
	return params
}

// SerializeParams renders a parameter map back into directive parameter
// syntax. Keys are emitted in sorted order; values containing separators
// or whitespace are double-quoted so the result reparses to the same map.
func SerializeParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		v := params[k]
		if strings.ContainsAny(v, ", \t\"'") || v == "" {
			if strings.Contains(v, `"`) {
				sb.WriteByte('\'')
				sb.WriteString(v)
				sb.WriteByte('\'')
			} else {
				sb.WriteByte('"')
				sb.WriteString(v)
				sb.WriteByte('"')
			}
		} else {
			sb.WriteString(v)
		}
	}
	return sb.String()
}
