package handlers

import (
	"fmt"
	"strings"

	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/profile"
	"github.com/zenify/companion/internal/text"
)

const (
	// listLimit caps how many items a list reply shows.
	listLimit = 10
	// previewLimit caps the content shown per list item.
	previewLimit = 120
	dayFormat    = "Mon 02 Jan"
	stampFormat  = "2006-01-02 15:04"
)

// FormatJournals lists the newest entries first, with their ids for /deljournal.
func FormatJournals(entries []model.JournalEntry) string {
	if len(entries) == 0 {
		return "No journal entries found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Journal entries (%d):\n", len(entries))
	shown := 0
	for i := len(entries) - 1; i >= 0 && shown < listLimit; i-- {
		e := entries[i]
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s [%s] %s\n", e.CreatedAt.Format(stampFormat), e.Mood.Label(), e.Title)
		sb.WriteString(text.Truncate(e.Content, previewLimit))
		sb.WriteString("\n")
		if len(e.Tags) > 0 {
			sb.WriteString("#" + strings.Join(e.Tags, " #") + "\n")
		}
		fmt.Fprintf(&sb, "id: %s\n", e.ID)
		shown++
	}
	if len(entries) > shown {
		fmt.Fprintf(&sb, "\n...and %d older entries.", len(entries)-shown)
	}
	return strings.TrimSpace(sb.String())
}

// FormatMoods renders the current mood and the latest mood per day.
func FormatMoods(current model.Mood, days []profile.DayMood) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current mood: %s\n", current.Label())
	if len(days) == 0 {
		sb.WriteString("\nNo moods tracked this week. Use /mood to add one.")
		return sb.String()
	}
	sb.WriteString("\nThis week:\n")
	for _, d := range days {
		fmt.Fprintf(&sb, "%s: %s\n", d.Day.Format(dayFormat), d.Mood.Label())
	}
	return strings.TrimSpace(sb.String())
}

// FormatStats renders the progress summary.
func FormatStats(st *profile.Stats) string {
	return fmt.Sprintf("Your progress\n\n"+
		"Journal entries: %d\n"+
		"Conversations: %d\n"+
		"Moods tracked: %d\n"+
		"Day streak: %d\n"+
		"Average mood (14 days): %s",
		st.JournalCount, st.ConversationCount, st.MoodCount, st.Streak, st.AverageMood)
}

// UserFlags groups flagged records by namespace for the admin listing.
type UserFlags struct {
	Namespace string
	Items     []model.FlaggedContent
}

// FormatFlagged renders flagged records for review.
func FormatFlagged(groups []UserFlags, filter profile.FlagFilter) string {
	var sb strings.Builder
	total := 0
	for _, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s (%d)\n", g.Namespace, len(g.Items))
		for i, it := range g.Items {
			if i == listLimit {
				fmt.Fprintf(&sb, "...and %d more\n", len(g.Items)-listLimit)
				break
			}
			state := "pending"
			if it.Reviewed {
				state = "reviewed by " + it.ReviewedBy
			}
			fmt.Fprintf(&sb, "- %s %s, %s\n  %s\n  %q\n  id: %s\n",
				it.Timestamp.Format(stampFormat), it.Type, state, it.Reason,
				text.Truncate(it.Content, previewLimit), it.ID)
		}
		total += len(g.Items)
	}
	if total == 0 {
		if filter == profile.FlagFilterAll {
			return "No flagged content."
		}
		return fmt.Sprintf("No %s flagged content.", filter)
	}
	return fmt.Sprintf("Flagged content, %s: %d", filter, total) + "\n" + strings.TrimRight(sb.String(), "\n")
}
