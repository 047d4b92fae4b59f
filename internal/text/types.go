// Package text cleans user input before it is stored and turns AI replies into
// plain text suitable for a Telegram message.
package text

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	minNewlinesThreshold = 3
	ellipsis             = "..."
)

var (
	// controlCharsRegex matches ASCII control characters except tab, LF and CR.
	controlCharsRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	// multipleNewlinesRegex matches runs of blank lines that collapse to one.
	multipleNewlinesRegex = regexp.MustCompile("\n{" + strconv.Itoa(minNewlinesThreshold) + ",}")

	// blockBreakRegex matches the HTML block boundaries that become line breaks in plain text.
	blockBreakRegex = regexp.MustCompile(`<br\s*/?>|</?p>|</?div>|</?pre>|</?h[1-6]>`)

	// blankLinesRegex matches whitespace-only gaps between paragraphs.
	blankLinesRegex = regexp.MustCompile(`\n\s*\n+`)

	// invisibleReplacer drops zero-width and directional characters, which
	// would otherwise split a word in two for the content monitor, and maps
	// Unicode spaces and separators onto their ASCII equivalents.
	invisibleReplacer = strings.NewReplacer(
		"\u200B", "", "\u200C", "", "\u200D", "",
		"\u2060", "", "\uFEFF", "", "\u00AD", "",
		"\u200E", "", "\u200F", "", "\u180E", "",
		"\u202A", "", "\u202B", "", "\u202C", "", "\u202D", "", "\u202E", "",
		"\u2061", "", "\u2062", "", "\u2063", "", "\u2064", "",
		"\u2028", "\n", "\u2029", "\n\n",
		"\u00A0", " ", "\u2009", " ", "\u200A", " ",
		"\u202F", " ", "\u205F", " ", "\u3000", " ",
	)
)
