package parsers

import (
	"strings"
	"unicode"
)

// LineKind is the dialect a single line was recognized as.
type LineKind uint8

const (
	LineUnrecognized LineKind = iota
	LineBlank
	LineComment
	LineWildcard // *.example.com
	LineABP      // ||example.com^
	LineHosts    // 0.0.0.0 example.com
	LineBare     // example.com
)

// String returns a stable name for the kind.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineWildcard:
		return "wildcard"
	case LineABP:
		return "abp"
	case LineHosts:
		return "hosts"
	case LineBare:
		return "bare"
	default:
		return "unrecognized"
	}
}

// recognizer matches one line dialect. match receives a trimmed line with
// inline comments removed and returns the hostname token it carries. A match
// with an empty token means the line belongs to the dialect but names no host.
type recognizer struct {
	kind  LineKind
	match func(line string) (token string, ok bool)
}

// recognizers are evaluated in order; the first match wins.
var recognizers = []recognizer{
	{LineBlank, matchBlank},
	{LineComment, matchComment},
	{LineWildcard, matchWildcard},
	{LineABP, matchABP},
	{LineHosts, matchHosts},
	{LineBare, matchBare},
}

// nullRouteAddrs are the hosts-file addresses recognized as block targets.
var nullRouteAddrs = map[string]struct{}{
	"0.0.0.0":   {},
	"127.0.0.1": {},
}

// ClassifyLine runs the recognizer table over one raw line and returns the
// matching kind and the hostname token, which may be empty.
func ClassifyLine(raw string) (LineKind, string) {
	line := strings.TrimSpace(stripLineBOM(raw))
	if !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "!") {
		line = stripInlineComment(line)
	}
	for _, r := range recognizers {
		if tok, ok := r.match(line); ok {
			return r.kind, tok
		}
	}
	return LineUnrecognized, ""
}

func matchBlank(line string) (string, bool) {
	return "", line == ""
}

func matchComment(line string) (string, bool) {
	return "", strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!")
}

func matchWildcard(line string) (string, bool) {
	if !strings.HasPrefix(line, "*.") {
		return "", false
	}
	return line[2:], true
}

// matchABP accepts only the bare ||host^ form. Lines with $options after the
// separator carry conditions a plain domain block cannot express.
func matchABP(line string) (string, bool) {
	if len(line) < 4 || !strings.HasPrefix(line, "||") || !strings.HasSuffix(line, "^") {
		return "", false
	}
	return line[2 : len(line)-1], true
}

func matchHosts(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	if _, ok := nullRouteAddrs[fields[0]]; !ok {
		return "", false
	}
	if len(fields) < 2 {
		return "", true
	}
	return fields[1], true
}

func matchBare(line string) (string, bool) {
	if strings.IndexFunc(line, unicode.IsSpace) >= 0 || !strings.Contains(line, ".") {
		return "", false
	}
	if _, ok := nullRouteAddrs[line]; ok {
		return "", false
	}
	return line, true
}

// stripLineBOM removes a UTF-8 byte order mark from the start of a line.
func stripLineBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// stripInlineComment cuts a trailing comment introduced by whitespace and '#'.
// A '#' glued to other text (cosmetic filters like example.com##.ad) is kept so
// the line stays unrecognizable.
func stripInlineComment(s string) string {
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}
