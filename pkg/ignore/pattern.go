package ignore

import (
	"regexp"
	"strings"
)

// Matcher reports whether a normalized, slash-separated relative path matches.
type Matcher interface {
	Match(path string) bool
}

// Pattern is one compiled exclusion rule.
type Pattern struct {
	Raw      string  // Original pattern line, trimmed.
	Negated  bool    // Pattern started with '!'.
	Anchored bool    // Pattern started with '/', matches only from the root.
	DirOnly  bool    // Pattern ended with '/'.
	matcher  Matcher // Compiled predicate.
}

// Match reports whether the pattern's predicate matches path, ignoring negation.
func (p *Pattern) Match(path string) bool {
	return p.matcher.Match(path)
}

// String returns the raw pattern text.
func (p *Pattern) String() string {
	return p.Raw
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) Match(path string) bool {
	return m.re.MatchString(path)
}

// literalMatcher is the last-resort predicate for text that could not be turned into a
// valid expression: the pattern text must appear as a whole segment run.
type literalMatcher struct {
	text string
}

func (m literalMatcher) Match(path string) bool {
	p := strings.ToLower(path)
	if p == m.text || strings.HasPrefix(p, m.text+"/") {
		return true
	}
	return strings.HasSuffix(p, "/"+m.text) || strings.Contains(p, "/"+m.text+"/")
}

// Compile translates a single ignore line into a Pattern. The line must already be
// trimmed, non-empty and not a comment. Compile never fails: malformed input degrades
// to a matcher that matches fewer paths.
func Compile(line string) *Pattern {
	p := &Pattern{Raw: line}

	body := line
	if strings.HasPrefix(body, "!") {
		p.Negated = true
		body = body[1:]
	}

	body = strings.ReplaceAll(body, `\`, "/")

	if strings.HasPrefix(body, "/") {
		p.Anchored = true
		body = strings.TrimLeft(body, "/")
	}

	p.DirOnly = strings.HasSuffix(body, "/")

	expr := translate(body, p.Anchored, p.DirOnly)
	re, err := regexp.Compile(expr)
	if err != nil {
		p.matcher = literalMatcher{text: strings.ToLower(strings.Trim(body, "/"))}
		return p
	}
	p.matcher = regexpMatcher{re: re}
	return p
}

// translate builds the regular expression for a pattern body with the negation and
// anchoring markers already removed.
func translate(body string, anchored, dirOnly bool) string {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	if !anchored {
		sb.WriteString("(?:.*/)?")
	}

	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '*' && i+1 < len(runes) && runes[i+1] == '*':
			if i+2 < len(runes) && runes[i+2] == '/' {
				sb.WriteString("(?:.*/)?")
				i += 2
			} else {
				sb.WriteString(".*")
				i++
			}
		case c == '*':
			sb.WriteString("[^/]*")
		case c == '?':
			sb.WriteString("[^/]")
		case c == '[':
			end := indexRune(runes[i+1:], ']')
			if end <= 0 {
				sb.WriteString(`\[`)
				continue
			}
			sb.WriteString(charClass(string(runes[i+1 : i+1+end])))
			i += end + 1
		case c == '/':
			sb.WriteByte('/')
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if dirOnly {
		sb.WriteString(".*$")
	} else {
		sb.WriteString("(?:/.*)?$")
	}
	return sb.String()
}

// charClass renders the inside of a bracket expression. Letters are copied unchanged;
// the enclosing (?i) flag folds case, ranges included.
func charClass(inner string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	if strings.HasPrefix(inner, "!") && len(inner) > 1 {
		sb.WriteByte('^')
		inner = inner[1:]
	}
	for _, r := range inner {
		switch {
		case r == '\\' || r == '[' || r == ']' || r == '^':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}
