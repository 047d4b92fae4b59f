package profile_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/zenify/companion/internal/database"
	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/monitor"
	"github.com/zenify/companion/internal/profile"
)

func TestAddJournal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{name: "Clear content", content: "Went for a walk, felt fine."},
		{name: "Flagged content", content: "Some days I think about SELF-HARM."},
		{name: "Substring match", content: "This traffic is killing me."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newStore(t)

			entry, err := s.AddJournal(ctx, profile.JournalInput{
				Title:   "Entry",
				Content: tt.content,
				Mood:    model.MoodNeutral,
				Tags:    []string{"daily"},
			})
			if err != nil {
				t.Fatalf("AddJournal() error = %v", err)
			}

			entries, err := s.GetJournalEntries(ctx)
			if err != nil {
				t.Fatalf("GetJournalEntries() error = %v", err)
			}
			if len(entries) != 1 || entries[0].ID != entry.ID {
				t.Fatalf("GetJournalEntries() = %+v, want the new entry", entries)
			}
			got := entries[0]
			if !got.CreatedAt.Equal(got.UpdatedAt) {
				t.Errorf("createdAt %v != updatedAt %v", got.CreatedAt, got.UpdatedAt)
			}
			verdict := monitor.Check(tt.content)
			if got.Flagged != verdict.Flagged || got.FlagReason != verdict.Reason {
				t.Errorf("flagged = %v (%q), want %v (%q)", got.Flagged, got.FlagReason, verdict.Flagged, verdict.Reason)
			}

			flagged, err := s.ListFlagged(ctx)
			if err != nil {
				t.Fatalf("ListFlagged() error = %v", err)
			}
			wantFlags := 0
			if verdict.Flagged {
				wantFlags = 1
			}
			if len(flagged) != wantFlags {
				t.Errorf("ListFlagged() has %d records, want %d", len(flagged), wantFlags)
			}
		})
	}
}

func TestAddJournalFlagsAndReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	entry, err := s.AddJournal(ctx, profile.JournalInput{Title: "T", Content: "I want to die", Mood: model.MoodBad, Tags: []string{}})
	if err != nil {
		t.Fatalf("AddJournal() error = %v", err)
	}
	if !entry.Flagged {
		t.Fatal("AddJournal() entry not flagged")
	}

	flagged, err := s.ListFlagged(ctx)
	if err != nil {
		t.Fatalf("ListFlagged() error = %v", err)
	}
	if len(flagged) != 1 {
		t.Fatalf("ListFlagged() = %d records, want 1", len(flagged))
	}
	rec := flagged[0]
	if rec.Type != model.ContentJournal || rec.Reviewed || rec.Content != "I want to die" {
		t.Errorf("flag record = %+v", rec)
	}
	if rec.Reason != `Contains concerning keyword: "want to die"` {
		t.Errorf("flag reason = %q", rec.Reason)
	}

	first, err := s.MarkReviewed(ctx, rec.ID, "Admin")
	if err != nil || first == nil {
		t.Fatalf("MarkReviewed() = %v, %v", first, err)
	}
	if !first.Reviewed || first.ReviewedBy != "Admin" || first.ReviewedAt == nil {
		t.Errorf("MarkReviewed() = %+v", first)
	}
	if first.Content != rec.Content || first.Reason != rec.Reason || !first.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("MarkReviewed() changed other fields: %+v", first)
	}

	second, err := s.MarkReviewed(ctx, rec.ID, "Other")
	if err != nil || second == nil {
		t.Fatalf("second MarkReviewed() = %v, %v", second, err)
	}
	if second.ReviewedBy != "Other" || !second.ReviewedAt.After(*first.ReviewedAt) {
		t.Errorf("second MarkReviewed() = %+v, want reviewer and time overwritten", second)
	}

	missing, err := s.MarkReviewed(ctx, "nope", "Admin")
	if err != nil || missing != nil {
		t.Errorf("MarkReviewed(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestUpdateJournal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t, profile.WithClock(frozenClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))))

	entry, err := s.AddJournal(ctx, profile.JournalInput{Title: "Old", Content: "fine", Mood: model.MoodGood})
	if err != nil {
		t.Fatalf("AddJournal() error = %v", err)
	}

	title := "New"
	updated, err := s.UpdateJournal(ctx, entry.ID, profile.JournalUpdate{Title: &title})
	if err != nil || updated == nil {
		t.Fatalf("UpdateJournal() = %v, %v", updated, err)
	}
	if updated.ID != entry.ID || !updated.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("UpdateJournal() changed id or createdAt: %+v", updated)
	}
	if !updated.UpdatedAt.After(entry.UpdatedAt) {
		t.Errorf("updatedAt %v not after %v", updated.UpdatedAt, entry.UpdatedAt)
	}
	if updated.Title != "New" || updated.Content != "fine" {
		t.Errorf("UpdateJournal() = %+v", updated)
	}

	again, err := s.UpdateJournal(ctx, entry.ID, profile.JournalUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateJournal() error = %v", err)
	}
	if !again.UpdatedAt.After(updated.UpdatedAt) {
		t.Errorf("updatedAt not strictly increasing under a frozen clock")
	}

	missing, err := s.UpdateJournal(ctx, "nope", profile.JournalUpdate{Title: &title})
	if err != nil || missing != nil {
		t.Errorf("UpdateJournal(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestUpdateJournalRechecksContent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	entry, _ := s.AddJournal(ctx, profile.JournalInput{Title: "t", Content: "calm", Mood: model.MoodGood})

	content := "I feel suicidal"
	updated, err := s.UpdateJournal(ctx, entry.ID, profile.JournalUpdate{Content: &content})
	if err != nil {
		t.Fatalf("UpdateJournal() error = %v", err)
	}
	if !updated.Flagged {
		t.Error("UpdateJournal() did not flag new content")
	}

	title := "retitled"
	if _, err := s.UpdateJournal(ctx, entry.ID, profile.JournalUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateJournal() error = %v", err)
	}
	flagged, _ := s.ListFlagged(ctx)
	if len(flagged) != 1 {
		t.Errorf("ListFlagged() = %d records, want 1 (unchanged content is not flagged again)", len(flagged))
	}

	clean := "better now"
	updated, _ = s.UpdateJournal(ctx, entry.ID, profile.JournalUpdate{Content: &clean})
	if updated.Flagged || updated.FlagReason != "" {
		t.Errorf("UpdateJournal() kept stale flag: %+v", updated)
	}
}

func TestDeleteJournal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddJournal(ctx, profile.JournalInput{Title: "a", Content: "a", Mood: model.MoodGood})
	b, _ := s.AddJournal(ctx, profile.JournalInput{Title: "b", Content: "b", Mood: model.MoodGood})

	ok, err := s.DeleteJournal(ctx, a.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteJournal() = %v, %v, want true", ok, err)
	}
	entries, _ := s.GetJournalEntries(ctx)
	if len(entries) != 1 || entries[0].ID != b.ID {
		t.Errorf("after delete entries = %+v", entries)
	}

	ok, err = s.DeleteJournal(ctx, a.ID)
	if err != nil || ok {
		t.Errorf("second DeleteJournal() = %v, %v, want false, nil", ok, err)
	}
}

func TestAddJournalRejectsUnknownMood(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)
	if _, err := s.AddJournal(context.Background(), profile.JournalInput{Mood: "meh"}); err == nil {
		t.Error("AddJournal() with unknown mood succeeded")
	}
}

func TestAddJournalAcceptsEmptyText(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)
	entry, err := s.AddJournal(context.Background(), profile.JournalInput{Mood: model.MoodNeutral})
	if err != nil || entry == nil {
		t.Fatalf("AddJournal() with empty title and content = %v, %v", entry, err)
	}
}

func TestSearchJournalsAndTags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	inputs := []profile.JournalInput{
		{Title: "Morning run", Content: "Legs tired", Mood: model.MoodGood, Tags: []string{"exercise", "morning"}},
		{Title: "Work", Content: "Long MEETING day", Mood: model.MoodBad, Tags: []string{"work"}},
		{Title: "Evening", Content: "Run by the river", Mood: model.MoodGreat, Tags: []string{"exercise"}},
	}
	for _, in := range inputs {
		if _, err := s.AddJournal(ctx, in); err != nil {
			t.Fatalf("AddJournal() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		query string
		tag   string
		want  []string
	}{
		{name: "Empty query", want: []string{"Morning run", "Work", "Evening"}},
		{name: "Title or content", query: "run", want: []string{"Morning run", "Evening"}},
		{name: "Case insensitive", query: "meeting", want: []string{"Work"}},
		{name: "Tag only", tag: "exercise", want: []string{"Morning run", "Evening"}},
		{name: "Query and tag", query: "river", tag: "exercise", want: []string{"Evening"}},
		{name: "No match", query: "holiday", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchJournals(ctx, tt.query, tt.tag)
			if err != nil {
				t.Fatalf("SearchJournals() error = %v", err)
			}
			titles := []string{}
			for _, e := range got {
				titles = append(titles, e.Title)
			}
			if !reflect.DeepEqual(titles, tt.want) {
				t.Errorf("SearchJournals(%q, %q) = %v, want %v", tt.query, tt.tag, titles, tt.want)
			}
		})
	}

	tags, err := s.JournalTags(ctx)
	if err != nil {
		t.Fatalf("JournalTags() error = %v", err)
	}
	if want := []string{"exercise", "morning", "work"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("JournalTags() = %v, want %v", tags, want)
	}
}

var errDiskFull = errors.New("disk full")

// profileWriteFailure fails every write of a profile document.
type profileWriteFailure struct {
	database.Store
}

func (b profileWriteFailure) Put(ctx context.Context, key string, value []byte) error {
	if strings.HasSuffix(key, "/profile") {
		return errDiskFull
	}
	return b.Store.Put(ctx, key, value)
}

func TestAddJournalKeepsFlagWhenProfileWriteFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := database.NewMemoryStore()
	seed, err := profile.NewStore(backend, profile.DefaultNamespace)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := seed.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	s, err := profile.NewStore(profileWriteFailure{backend}, profile.DefaultNamespace)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	_, err = s.AddJournal(ctx, profile.JournalInput{Title: "Night", Content: "I want to die", Mood: model.MoodAwful})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("AddJournal() error = %v, want disk full", err)
	}

	entries, err := s.GetJournalEntries(ctx)
	if err != nil || len(entries) != 0 {
		t.Errorf("GetJournalEntries() = %d entries, %v, want none", len(entries), err)
	}
	flags, err := s.ListFlagged(ctx)
	if err != nil || len(flags) != 1 || flags[0].Type != model.ContentJournal {
		t.Errorf("ListFlagged() = %+v, %v, want the journal flag kept", flags, err)
	}
}
