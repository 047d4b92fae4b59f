package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zenify/companion/internal/model"
)

// FlagFilter selects flagged content by review state.
type FlagFilter string

// Review state filters.
const (
	FlagFilterAll      FlagFilter = "all"
	FlagFilterPending  FlagFilter = "pending"
	FlagFilterReviewed FlagFilter = "reviewed"
)

// ParseFlagFilter parses all, pending or reviewed; empty means all.
func ParseFlagFilter(s string) (FlagFilter, error) {
	switch f := FlagFilter(s); f {
	case "":
		return FlagFilterAll, nil
	case FlagFilterAll, FlagFilterPending, FlagFilterReviewed:
		return f, nil
	default:
		return "", invalidInput("unknown filter %q", s)
	}
}

// ListFlagged returns the flagged content collection in insertion order.
func (s *Store) ListFlagged(ctx context.Context) ([]model.FlaggedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFlagged(ctx)
}

// ListFlaggedFiltered returns the records matching filter, newest first.
func (s *Store) ListFlaggedFiltered(ctx context.Context, filter FlagFilter) ([]model.FlaggedContent, error) {
	items, err := s.ListFlagged(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.FlaggedContent, 0, len(items))
	for _, it := range items {
		switch filter {
		case FlagFilterPending:
			if it.Reviewed {
				continue
			}
		case FlagFilterReviewed:
			if !it.Reviewed {
				continue
			}
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// AddFlagged appends a new, unreviewed record.
func (s *Store) AddFlagged(ctx context.Context, typ model.ContentType, content, reason string) (*model.FlaggedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFlagged(ctx, typ, content, reason)
}

// MarkReviewed sets reviewed, reviewedAt and reviewedBy on the record with id.
// It returns nil when no such record exists. Marking an already reviewed record
// again overwrites the reviewer and time.
func (s *Store) MarkReviewed(ctx context.Context, id, reviewer string) (*model.FlaggedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadFlagged(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		now := s.timestamp()
		if items[i].ReviewedAt != nil {
			now = s.touch(*items[i].ReviewedAt)
		}
		items[i].Reviewed = true
		items[i].ReviewedAt = &now
		items[i].ReviewedBy = reviewer
		if err := s.saveFlagged(ctx, items); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Flagged content reviewed", "flag_id", id, "reviewer", reviewer)
		updated := items[i]
		return &updated, nil
	}
	s.logger.DebugContext(ctx, "Flagged content not found", "flag_id", id)
	return nil, nil
}

// addFlagged must be called with s.mu held.
func (s *Store) addFlagged(ctx context.Context, typ model.ContentType, content, reason string) (*model.FlaggedContent, error) {
	if typ != model.ContentChat && typ != model.ContentJournal {
		return nil, invalidInput("unknown content type %q", typ)
	}
	items, err := s.loadFlagged(ctx)
	if err != nil {
		return nil, err
	}
	rec := model.FlaggedContent{
		ID:        s.newID(),
		Type:      typ,
		Content:   content,
		Reason:    reason,
		Timestamp: s.timestamp(),
	}
	items = append(items, rec)
	if err := s.saveFlagged(ctx, items); err != nil {
		return nil, err
	}
	s.logger.WarnContext(ctx, "Content flagged", "flag_id", rec.ID, "type", typ, "reason", reason)
	return &rec, nil
}

// loadFlagged must be called with s.mu held. An absent collection is empty.
func (s *Store) loadFlagged(ctx context.Context) ([]model.FlaggedContent, error) {
	key := FlaggedKey(s.namespace)
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read flagged content: %w", err)
	}
	if !ok {
		return []model.FlaggedContent{}, nil
	}
	var items []model.FlaggedContent
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.ErrorContext(ctx, "Flagged content document is corrupt", "key", key, "error", err)
		return nil, &CorruptStateError{Key: key, Err: err}
	}
	if items == nil {
		items = []model.FlaggedContent{}
	}
	return items, nil
}

// saveFlagged must be called with s.mu held.
func (s *Store) saveFlagged(ctx context.Context, items []model.FlaggedContent) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode flagged content: %w", err)
	}
	if err := s.backend.Put(ctx, FlaggedKey(s.namespace), b); err != nil {
		return fmt.Errorf("failed to write flagged content: %w", err)
	}
	return nil
}
