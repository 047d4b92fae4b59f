// Package monitor flags user text that contains concerning phrases.
//
// Matching is a case-insensitive substring test against an ordered phrase list.
// The first phrase in list order wins, so the list order is the priority order.
// There is no tokenization: "kill" also matches inside longer words.
package monitor

import (
	"fmt"
	"strings"
)

// defaultKeywords is the built-in phrase list in priority order.
var defaultKeywords = []string{
	"suicide",
	"kill myself",
	"self-harm",
	"cut myself",
	"end my life",
	"want to die",
	"harm myself",
	"self harm",
	"suicidal",
	"kill",
}

// Result is the verdict for one text.
type Result struct {
	Flagged bool
	Reason  string
}

// Monitor checks text against a fixed keyword list. The zero value is not usable; use New.
type Monitor struct {
	keywords []string
}

var defaultMonitor = New()

// DefaultKeywords returns a copy of the built-in phrase list in priority order.
func DefaultKeywords() []string {
	return append([]string(nil), defaultKeywords...)
}

// New returns a Monitor using the built-in keywords followed by extra, lower-cased.
// Extra keywords never outrank the defaults. Blank and duplicate entries are dropped.
func New(extra ...string) *Monitor {
	seen := make(map[string]struct{}, len(defaultKeywords)+len(extra))
	keywords := make([]string, 0, len(defaultKeywords)+len(extra))
	for _, k := range append(DefaultKeywords(), extra...) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}
	return &Monitor{keywords: keywords}
}

// Keywords returns a copy of the phrase list in priority order.
func (m *Monitor) Keywords() []string {
	return append([]string(nil), m.keywords...)
}

// Check classifies text. It never fails and has no side effects.
func (m *Monitor) Check(text string) Result {
	lower := strings.ToLower(text)
	for _, k := range m.keywords {
		if strings.Contains(lower, k) {
			return Result{Flagged: true, Reason: Reason(k)}
		}
	}
	return Result{}
}

// Check classifies text with the default keyword list.
func Check(text string) Result {
	return defaultMonitor.Check(text)
}

// Reason formats the human readable reason for a matched phrase.
func Reason(keyword string) string {
	return fmt.Sprintf("Contains concerning keyword: %q", keyword)
}
