package quotes_test

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/zenify/companion/internal/quotes"
)

func TestAllComplete(t *testing.T) {
	t.Parallel()

	list := quotes.All()
	if len(list) == 0 {
		t.Fatal("All() returned no quotes")
	}
	for i, q := range list {
		if q.Text == "" || q.Author == "" {
			t.Errorf("quote %d is incomplete: %+v", i, q)
		}
	}

	list[0].Text = "changed"
	if quotes.All()[0].Text == "changed" {
		t.Error("All() exposes the internal list")
	}
}

func TestRandomDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := rand.New(rand.NewPCG(7, 7))
	b := rand.New(rand.NewPCG(7, 7))
	for range 10 {
		if qa, qb := quotes.Random(a), quotes.Random(b); qa != qb {
			t.Fatalf("Random() differs for equal seeds: %+v vs %+v", qa, qb)
		}
	}

	if q := quotes.Random(nil); q.Text == "" {
		t.Error("Random(nil) returned an empty quote")
	}
}

func TestForDay(t *testing.T) {
	t.Parallel()

	morning := time.Date(2025, 6, 10, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 10, 23, 55, 0, 0, time.UTC)
	if quotes.ForDay(morning) != quotes.ForDay(evening) {
		t.Error("ForDay() differs within one day")
	}

	next := morning.AddDate(0, 0, 1)
	if quotes.ForDay(morning) == quotes.ForDay(next) {
		t.Error("ForDay() repeats on consecutive days")
	}

	// Same instant, different local calendar days.
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)
	if quotes.ForDay(late) == quotes.ForDay(late.In(tokyo)) {
		t.Error("ForDay() ignores the location of t")
	}

	old := time.Date(1960, 1, 1, 12, 0, 0, 0, time.UTC)
	if quotes.ForDay(old).Text == "" {
		t.Error("ForDay() failed before the epoch")
	}
}

func TestQuoteString(t *testing.T) {
	t.Parallel()

	q := quotes.Quote{Text: "Breathe.", Author: "Someone"}
	s := q.String()
	if !strings.Contains(s, "Breathe.") || !strings.HasSuffix(s, "Someone") {
		t.Errorf("String() = %q", s)
	}
}
