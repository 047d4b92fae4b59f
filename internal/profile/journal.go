package profile

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/zenify/companion/internal/model"
)

// JournalInput holds the caller-supplied fields of a new journal entry.
type JournalInput struct {
	Title   string
	Content string
	Mood    model.Mood
	Tags    []string
}

// JournalUpdate lists journal fields to change. Nil fields are left alone.
type JournalUpdate struct {
	Title   *string
	Content *string
	Mood    *model.Mood
	Tags    *[]string
}

// GetJournalEntries returns the journals in insertion order.
func (s *Store) GetJournalEntries(ctx context.Context) ([]model.JournalEntry, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return p.Journals, nil
}

// AddJournal appends a journal entry. Its content is checked by the content
// monitor; a flagged entry also creates a flagged content record.
func (s *Store) AddJournal(ctx context.Context, in JournalInput) (*model.JournalEntry, error) {
	if !in.Mood.Valid() {
		return nil, invalidInput("unknown mood %q", in.Mood)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	verdict := s.monitor.Check(in.Content)
	entry := model.JournalEntry{
		ID:         s.newID(),
		Title:      in.Title,
		Content:    in.Content,
		Mood:       in.Mood,
		Tags:       cloneTags(in.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
		Flagged:    verdict.Flagged,
		FlagReason: verdict.Reason,
	}

	// The flagged record is written first and survives a failed profile write.
	if verdict.Flagged {
		if _, err := s.addFlagged(ctx, model.ContentJournal, entry.Content, verdict.Reason); err != nil {
			return nil, err
		}
	}

	p.Journals = append(p.Journals, entry)
	if err := s.saveProfile(ctx, p); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Journal entry added", "journal_id", entry.ID, "flagged", entry.Flagged)
	return &entry, nil
}

// UpdateJournal applies upd to the entry with id, keeping its id and creation
// time and refreshing updatedAt. The content is checked again; a flagged
// content record is only added when the content itself changed. It returns nil
// when no such entry exists.
func (s *Store) UpdateJournal(ctx context.Context, id string, upd JournalUpdate) (*model.JournalEntry, error) {
	if upd.Mood != nil && !upd.Mood.Valid() {
		return nil, invalidInput("unknown mood %q", *upd.Mood)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	idx := findJournal(p.Journals, id)
	if idx < 0 {
		s.logger.DebugContext(ctx, "Journal entry not found", "journal_id", id)
		return nil, nil
	}

	entry := p.Journals[idx]
	previousContent := entry.Content
	if upd.Title != nil {
		entry.Title = *upd.Title
	}
	if upd.Content != nil {
		entry.Content = *upd.Content
	}
	if upd.Mood != nil {
		entry.Mood = *upd.Mood
	}
	if upd.Tags != nil {
		entry.Tags = cloneTags(*upd.Tags)
	}
	entry.UpdatedAt = s.touch(entry.UpdatedAt)

	verdict := s.monitor.Check(entry.Content)
	entry.Flagged = verdict.Flagged
	entry.FlagReason = verdict.Reason
	if verdict.Flagged && entry.Content != previousContent {
		if _, err := s.addFlagged(ctx, model.ContentJournal, entry.Content, verdict.Reason); err != nil {
			return nil, err
		}
	}

	p.Journals[idx] = entry
	if err := s.saveProfile(ctx, p); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Journal entry updated", "journal_id", id, "flagged", entry.Flagged)
	return &entry, nil
}

// DeleteJournal removes the entry with id. It reports whether an entry was removed.
func (s *Store) DeleteJournal(ctx context.Context, id string) (bool, error) {
	var removed bool
	_, err := s.mutateProfile(ctx, func(p *model.UserProfile) error {
		idx := findJournal(p.Journals, id)
		if idx < 0 {
			return errNoChange
		}
		p.Journals = append(p.Journals[:idx], p.Journals[idx+1:]...)
		removed = true
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return false, err
	}
	return removed, nil
}

// SearchJournals returns entries whose title or content contains query
// (case-insensitive) and, when tag is not empty, carry that exact tag.
func (s *Store) SearchJournals(ctx context.Context, query, tag string) ([]model.JournalEntry, error) {
	entries, err := s.GetJournalEntries(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]model.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if q != "" && !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Content), q) {
			continue
		}
		if tag != "" && !hasTag(e.Tags, tag) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// JournalTags returns every tag used by any journal entry, de-duplicated and sorted.
func (s *Store) JournalTags(ctx context.Context) ([]string, error) {
	entries, err := s.GetJournalEntries(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	tags := []string{}
	for _, e := range entries {
		for _, t := range e.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func findJournal(entries []model.JournalEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func cloneTags(tags []string) []string {
	return append([]string{}, tags...)
}
