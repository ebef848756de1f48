package sanitize

import (
	"strings"
	"unicode"
)

// cleanJSONText turns raw model output into text that encoding/json can parse:
// code fences are removed, the outermost object is sliced out, comments are
// dropped and bare leading decimals are given a zero.
func cleanJSONText(raw string) (string, bool) {
	body, ok := sliceObject(stripFences(raw))
	if !ok {
		return "", false
	}
	return normalizeDecimals(stripComments(body)), true
}

// stripFences removes Markdown code fence markers (```json, ```) that open or
// close a line. Text between the fences is kept.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		fenced := false
		if strings.HasPrefix(t, "```") {
			t = strings.TrimLeftFunc(t[3:], isFenceLang)
			fenced = true
		}
		if strings.HasSuffix(t, "```") {
			t = strings.TrimSuffix(t, "```")
			fenced = true
		}
		if !fenced {
			out = append(out, line)
			continue
		}
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}

func isFenceLang(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// sliceObject returns the text from the first '{' to the last '}'.
func sliceObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// stringState tracks whether a byte-wise scan is inside a JSON string literal.
type stringState struct {
	in      bool
	escaped bool
}

// step consumes c and reports whether it belongs to a string literal,
// including the quotes.
func (st *stringState) step(c byte) bool {
	switch {
	case st.escaped:
		st.escaped = false
		return true
	case st.in && c == '\\':
		st.escaped = true
		return true
	case c == '"':
		st.in = !st.in
		return true
	default:
		return st.in
	}
}

// stripComments drops // line comments and /* */ block comments that appear
// outside string literals.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var st stringState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.step(c) || c != '/' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '/':
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end - 1
		case '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += 2 + end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// normalizeDecimals rewrites ".5" and "-.5" as "0.5" and "-0.5" outside
// string literals.
func normalizeDecimals(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var st stringState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !st.step(c) && c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(s[:i]) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// startsNumber reports whether a number may begin right after prefix.
func startsNumber(prefix string) bool {
	t := strings.TrimRight(prefix, " \t\r\n")
	if t == "" {
		return true
	}
	switch t[len(t)-1] {
	case ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
