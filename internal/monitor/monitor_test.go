package monitor_test

import (
	"strings"
	"testing"

	"github.com/zenify/companion/internal/monitor"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantFlagged bool
		wantKeyword string
	}{
		{name: "empty text", input: ""},
		{name: "benign text", input: "Had a calm walk in the park today."},
		{name: "single keyword", input: "I want to die", wantFlagged: true, wantKeyword: "want to die"},
		{name: "case insensitive", input: "Thinking about SUICIDE lately", wantFlagged: true, wantKeyword: "suicide"},
		{name: "substring inside word", input: "this traffic is killing me", wantFlagged: true, wantKeyword: "kill"},
		{name: "hyphenated", input: "history of Self-Harm", wantFlagged: true, wantKeyword: "self-harm"},
		{
			name:        "earliest list position wins over earlier text position",
			input:       "I could kill for coffee, and I feel suicidal",
			wantFlagged: true,
			wantKeyword: "suicidal",
		},
		{
			name:        "first in list beats longer match",
			input:       "I want to kill myself",
			wantFlagged: true,
			wantKeyword: "kill myself",
		},
		{name: "word boundary not required", input: "skillful", wantFlagged: true, wantKeyword: "kill"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := monitor.Check(tt.input)
			if got.Flagged != tt.wantFlagged {
				t.Fatalf("Check(%q).Flagged = %v, want %v", tt.input, got.Flagged, tt.wantFlagged)
			}
			if !tt.wantFlagged {
				if got.Reason != "" {
					t.Errorf("Check(%q).Reason = %q, want empty", tt.input, got.Reason)
				}
				return
			}
			want := `Contains concerning keyword: "` + tt.wantKeyword + `"`
			if got.Reason != want {
				t.Errorf("Check(%q).Reason = %q, want %q", tt.input, got.Reason, want)
			}
		})
	}
}

func TestCheckEveryKeywordReportsItself(t *testing.T) {
	t.Parallel()

	defaults := monitor.DefaultKeywords()
	for i, k := range defaults {
		got := monitor.Check("prefix " + strings.ToUpper(k) + " suffix")
		if !got.Flagged {
			t.Errorf("keyword %q not flagged", k)
			continue
		}
		// the reported phrase is the earliest listed phrase contained in k
		wantIdx := i
		for j := 0; j < i; j++ {
			if strings.Contains(k, defaults[j]) {
				wantIdx = j
				break
			}
		}
		if want := monitor.Reason(defaults[wantIdx]); got.Reason != want {
			t.Errorf("Check(%q).Reason = %q, want %q", k, got.Reason, want)
		}
	}
}

func TestNewWithExtraKeywords(t *testing.T) {
	t.Parallel()

	m := monitor.New("  Hopeless ", "", "suicide")
	kw := m.Keywords()
	if len(kw) != len(monitor.DefaultKeywords())+1 {
		t.Fatalf("expected defaults plus one extra, got %v", kw)
	}
	if kw[len(kw)-1] != "hopeless" {
		t.Errorf("extra keyword should be normalized and appended last, got %q", kw[len(kw)-1])
	}

	got := m.Check("I feel hopeless")
	if !got.Flagged || got.Reason != monitor.Reason("hopeless") {
		t.Errorf("unexpected result %+v", got)
	}

	got = m.Check("hopeless and want to die")
	if got.Reason != monitor.Reason("want to die") {
		t.Errorf("defaults must outrank extra keywords, got %q", got.Reason)
	}

	if monitor.Check("I feel hopeless").Flagged {
		t.Error("package-level Check must not see extra keywords")
	}
}

func TestDefaultKeywordsReturnsCopy(t *testing.T) {
	t.Parallel()

	kw := monitor.DefaultKeywords()
	kw[0] = "sunshine"

	if monitor.DefaultKeywords()[0] != "suicide" {
		t.Error("mutating the returned slice changed the built-in list")
	}
	if monitor.New().Check("sunshine").Flagged {
		t.Error("New() picked up a mutated keyword")
	}
	if !monitor.New().Check("suicide").Flagged {
		t.Error("New() lost a built-in keyword")
	}
}
