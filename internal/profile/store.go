// Package profile implements the profile store: read-modify-write access to one
// user profile document and one flagged content collection per storage namespace.
//
// Each operation loads the whole document, mutates it in memory and writes the
// whole document back while holding the Store's mutex, so writes through one
// Store never overwrite each other. Use a Registry to get exactly one Store per
// namespace in a process.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenify/companion/internal/database"
	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/monitor"
)

// DefaultNamespace is used by single-user deployments.
const DefaultNamespace = "default"

const (
	profileSuffix = "/profile"
	flaggedSuffix = "/flagged"
)

// ProfileKey is the backend key holding the profile document of namespace.
func ProfileKey(namespace string) string { return namespace + profileSuffix }

// FlaggedKey is the backend key holding the flagged content collection of namespace.
func FlaggedKey(namespace string) string { return namespace + flaggedSuffix }

// Store owns the documents of a single namespace.
type Store struct {
	mu        sync.Mutex
	backend   database.Store
	namespace string
	monitor   *monitor.Monitor
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithMonitor sets the content monitor used on journal content and user messages.
func WithMonitor(m *monitor.Monitor) Option {
	return func(s *Store) { s.monitor = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a Store for namespace on backend.
func NewStore(backend database.Store, namespace string, opts ...Option) (*Store, error) {
	if namespace == "" || strings.Contains(namespace, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	s := &Store{
		backend:   backend,
		namespace: namespace,
		monitor:   monitor.New(),
		now:       time.Now,
		newID:     newUUIDv7,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "profile_store", "namespace", namespace)
	return s, nil
}

// Namespace returns the storage namespace of the Store.
func (s *Store) Namespace() string { return s.namespace }

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// timestamp returns the current time in UTC without a monotonic reading.
func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// touch returns a timestamp strictly after prev.
func (s *Store) touch(prev time.Time) time.Time {
	t := s.timestamp()
	if !t.After(prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}

// Initialize writes the default profile if the namespace has none and returns
// the stored profile. It never overwrites an existing document.
func (s *Store) Initialize(ctx context.Context) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProfile(ctx)
}

// GetProfile returns the current profile, initializing it if absent. A document
// that cannot be decoded yields a *CorruptStateError.
func (s *Store) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProfile(ctx)
}

// Patch lists top-level profile fields to replace. Nil fields are left alone.
// Nested values (Mood, Settings) replace the stored value wholesale; they are
// never merged field by field. IsAdmin is deliberately absent.
type Patch struct {
	Name          *string
	Mood          *model.MoodState
	Journals      *[]model.JournalEntry
	Conversations *[]model.Conversation
	Settings      *model.Settings
}

// UpdateProfile shallow-merges patch into the profile and returns the result.
func (s *Store) UpdateProfile(ctx context.Context, patch Patch) (*model.UserProfile, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.mutateProfile(ctx, func(p *model.UserProfile) error {
		applyPatch(p, patch)
		return nil
	})
}

// PatchTopLevelFields is UpdateProfile under the name that states its semantics.
func (s *Store) PatchTopLevelFields(ctx context.Context, patch Patch) (*model.UserProfile, error) {
	return s.UpdateProfile(ctx, patch)
}

// ReplaceSettings replaces the settings object as a whole.
func (s *Store) ReplaceSettings(ctx context.Context, settings model.Settings) (*model.UserProfile, error) {
	return s.UpdateProfile(ctx, Patch{Settings: &settings})
}

// SetName changes the display name.
func (s *Store) SetName(ctx context.Context, name string) (*model.UserProfile, error) {
	return s.UpdateProfile(ctx, Patch{Name: &name})
}

// SeedAdmin sets the isAdmin flag. It exists for deployment wiring only; no
// user-facing flow calls it.
func (s *Store) SeedAdmin(ctx context.Context, isAdmin bool) (*model.UserProfile, error) {
	return s.mutateProfile(ctx, func(p *model.UserProfile) error {
		p.IsAdmin = isAdmin
		return nil
	})
}

// Export returns the profile as indented JSON.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	return b, nil
}

// Import shallow-merges a previously exported profile into the current one.
// The data must contain settings, mood and journals sections; isAdmin and
// schemaVersion in the data are ignored.
func (s *Store) Import(ctx context.Context, data []byte) (*model.UserProfile, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for _, required := range []string{"settings", "mood", "journals"} {
		if raw, ok := sections[required]; !ok || string(raw) == "null" {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidImport, required)
		}
	}

	var incoming struct {
		Name          *string               `json:"name"`
		Mood          *model.MoodState      `json:"mood"`
		Journals      *[]model.JournalEntry `json:"journals"`
		Conversations *[]model.Conversation `json:"conversations"`
		Settings      *model.Settings       `json:"settings"`
	}
	if err := json.Unmarshal(data, &incoming); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	patch := Patch{
		Name:          incoming.Name,
		Mood:          incoming.Mood,
		Journals:      incoming.Journals,
		Conversations: incoming.Conversations,
		Settings:      incoming.Settings,
	}
	if err := validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	p, err := s.mutateProfile(ctx, func(p *model.UserProfile) error {
		applyPatch(p, patch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Profile imported", "journals", len(p.Journals), "conversations", len(p.Conversations))
	return p, nil
}

func validatePatch(p Patch) error {
	if p.Mood != nil && !p.Mood.Current.Valid() {
		return invalidInput("unknown mood %q", p.Mood.Current)
	}
	if p.Settings != nil {
		if err := validateSettings(*p.Settings); err != nil {
			return err
		}
	}
	return nil
}

func validateSettings(st model.Settings) error {
	switch st.Theme {
	case model.ThemeLight, model.ThemeDark:
	default:
		return invalidInput("unknown theme %q", st.Theme)
	}
	switch st.FontSize {
	case model.FontSizeSmall, model.FontSizeMedium, model.FontSizeLarge:
	default:
		return invalidInput("unknown font size %q", st.FontSize)
	}
	return nil
}

func applyPatch(p *model.UserProfile, patch Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Mood != nil {
		p.Mood = *patch.Mood
	}
	if patch.Journals != nil {
		p.Journals = *patch.Journals
	}
	if patch.Conversations != nil {
		p.Conversations = *patch.Conversations
	}
	if patch.Settings != nil {
		p.Settings = *patch.Settings
	}
	fillEmpty(p)
}

// mutateProfile runs fn on the loaded profile and persists the result. fn
// returning an error aborts the write.
func (s *Store) mutateProfile(ctx context.Context, fn func(*model.UserProfile) error) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.loadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.saveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadProfile must be called with s.mu held.
func (s *Store) loadProfile(ctx context.Context) (*model.UserProfile, error) {
	key := ProfileKey(s.namespace)
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if !ok {
		p := model.DefaultProfile()
		if err := s.saveProfile(ctx, &p); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Initialized default profile")
		return &p, nil
	}

	var p model.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.ErrorContext(ctx, "Profile document is corrupt", "key", key, "error", err)
		return nil, &CorruptStateError{Key: key, Err: err}
	}
	fillEmpty(&p)
	return &p, nil
}

// saveProfile must be called with s.mu held.
func (s *Store) saveProfile(ctx context.Context, p *model.UserProfile) error {
	p.SchemaVersion = model.SchemaVersion
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.backend.Put(ctx, ProfileKey(s.namespace), b); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// fillEmpty replaces nil collections so documents always encode arrays.
func fillEmpty(p *model.UserProfile) {
	if p.Mood.History == nil {
		p.Mood.History = []model.MoodEntry{}
	}
	if p.Journals == nil {
		p.Journals = []model.JournalEntry{}
	}
	if p.Conversations == nil {
		p.Conversations = []model.Conversation{}
	}
	for i := range p.Journals {
		if p.Journals[i].Tags == nil {
			p.Journals[i].Tags = []string{}
		}
	}
	for i := range p.Conversations {
		if p.Conversations[i].Messages == nil {
			p.Conversations[i].Messages = []model.ChatMessage{}
		}
	}
}
