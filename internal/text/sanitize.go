package text

import (
	"bytes"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdown    = goldmark.New()
	stripPolicy = bluemonday.StrictPolicy()
)

// normalizeLineWhitespace collapses runs of whitespace in a line into a single
// space and trims the ends.
func normalizeLineWhitespace(line string) string {
	var b strings.Builder

	var space bool

	for _, r := range line {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteRune(' ')

				space = true
			}
		} else {
			b.WriteRune(r)

			space = false
		}
	}

	return strings.TrimSpace(b.String())
}

// NormalizeInput cleans text typed by a user before it is stored or checked by
// the content monitor. It unifies line endings, drops invisible and control
// characters, collapses whitespace within each line and limits blank lines to
// one. Markdown is left untouched. An input that is only whitespace yields "".
func NormalizeInput(input string) string {
	if input == "" {
		return ""
	}

	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = invisibleReplacer.Replace(s)
	s = controlCharsRegex.ReplaceAllString(s, " ")

	parts := strings.Split(s, "\n")
	for i := range parts {
		parts[i] = normalizeLineWhitespace(parts[i])
	}

	s = strings.Join(parts, "\n")
	s = multipleNewlinesRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// PlainText renders markdown to HTML, strips every tag and unescapes the
// entities, leaving readable plain text. Paragraphs stay separated by one
// blank line. If the markdown cannot be rendered the normalized input is
// returned.
func PlainText(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return NormalizeInput(md)
	}

	s := blockBreakRegex.ReplaceAllString(buf.String(), "\n")
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = blankLinesRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// Truncate shortens s to at most maxRunes runes, ending with "..." when cut.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes <= len(ellipsis) {
		return string([]rune(s)[:maxRunes])
	}
	return string([]rune(s)[:maxRunes-len(ellipsis)]) + ellipsis
}
