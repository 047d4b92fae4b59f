// Package quotes holds the inspirational quotes shown on the welcome screen.
package quotes

import (
	"math/rand/v2"
	"time"
)

// Quote is a short saying with its author.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// String renders the quote for a chat message.
func (q Quote) String() string {
	return "\"" + q.Text + "\"\n- " + q.Author
}

var all = []Quote{
	{Text: "You don't have to control your thoughts. You just have to stop letting them control you.", Author: "Dan Millman"},
	{Text: "Your mind is a powerful thing. When you fill it with positive thoughts, your life will start to change.", Author: "Unknown"},
	{Text: "Mental health problems don't define who you are. They are something you experience.", Author: "Unknown"},
	{Text: "Self-care is how you take your power back.", Author: "Lalah Delia"},
	{Text: "Happiness can be found even in the darkest of times, if one only remembers to turn on the light.", Author: "Albus Dumbledore"},
	{Text: "You are not your illness. You have an individual story to tell. You have a name, a history, a personality.", Author: "Julian Seifter"},
	{Text: "Be patient with yourself. Self-growth is tender; it's holy ground. There's no greater investment.", Author: "Stephen Covey"},
	{Text: "What mental health needs is more sunlight, more candor, and more unashamed conversation.", Author: "Glenn Close"},
	{Text: "Recovery is not one and done. It is a lifelong journey that takes place one day, one step at a time.", Author: "Unknown"},
	{Text: "There is hope, even when your brain tells you there isn't.", Author: "John Green"},
	{Text: "You don't have to be positive all the time. It's perfectly okay to feel sad, angry, annoyed, frustrated, scared, or anxious.", Author: "Lori Deschene"},
	{Text: "Not until we are lost do we begin to understand ourselves.", Author: "Henry David Thoreau"},
}

// All returns a copy of the quote list.
func All() []Quote {
	out := make([]Quote, len(all))
	copy(out, all)
	return out
}

// Random picks a quote using r, or the global source when r is nil.
func Random(r *rand.Rand) Quote {
	if r == nil {
		return all[rand.IntN(len(all))]
	}
	return all[r.IntN(len(all))]
}

// ForDay returns the quote of the calendar day containing t, in t's location.
// Every instant of the same day yields the same quote.
func ForDay(t time.Time) Quote {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / int64(24*time.Hour/time.Second)
	idx := day % int64(len(all))
	if idx < 0 {
		idx += int64(len(all))
	}
	return all[idx]
}
