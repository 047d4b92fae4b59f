package companion_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zenify/companion/internal/companion"
	"github.com/zenify/companion/internal/database"
	"github.com/zenify/companion/internal/logger"
	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/profile"
)

type fakeReplier struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	received [][]model.ChatMessage
}

func (f *fakeReplier) GenerateReply(ctx context.Context, messages []model.ChatMessage) (string, error) {
	f.mu.Lock()
	f.received = append(f.received, append([]model.ChatMessage(nil), messages...))
	reply, err, block := f.reply, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return reply, err
}

func (f *fakeReplier) last() []model.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.received) == 0 {
		return nil
	}
	return f.received[len(f.received)-1]
}

func newStore(t *testing.T) *profile.Store {
	t.Helper()
	var mu sync.Mutex
	next := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next = next.Add(time.Second)
		return next
	}
	s, err := profile.NewStore(database.NewMemoryStore(), "tg-1", profile.WithClock(clock))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func newConversation(t *testing.T, s *profile.Store) *model.Conversation {
	t.Helper()
	conv, err := s.CreateConversation(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	return conv
}

func TestSendMessageSeedsSystemPromptOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	conv := newConversation(t, s)
	replier := &fakeReplier{reply: "Hello, I'm here to listen. How are you feeling today?"}
	svc := companion.NewService(replier, logger.Discard())

	ex, err := svc.SendMessage(ctx, s, conv.ID, "Hi")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	roles := []model.Role{model.RoleSystem, model.RoleUser, model.RoleAssistant}
	if len(ex.Conversation.Messages) != len(roles) {
		t.Fatalf("got %d messages, want %d", len(ex.Conversation.Messages), len(roles))
	}
	for i, role := range roles {
		if ex.Conversation.Messages[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, ex.Conversation.Messages[i].Role, role)
		}
	}
	if ex.Conversation.Messages[0].Content != companion.TherapistSystemPrompt {
		t.Error("first message is not the therapist prompt")
	}
	if ex.Reply.Content != replier.reply || ex.Fallback {
		t.Errorf("Reply = %+v, Fallback = %v", ex.Reply, ex.Fallback)
	}
	if len(replier.last()) != 2 {
		t.Errorf("replier received %d messages, want 2", len(replier.last()))
	}

	ex, err = svc.SendMessage(ctx, s, conv.ID, "I'm okay")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if len(ex.Conversation.Messages) != 5 {
		t.Errorf("got %d messages after second send, want 5", len(ex.Conversation.Messages))
	}
	systems := 0
	for _, m := range ex.Conversation.Messages {
		if m.Role == model.RoleSystem {
			systems++
		}
	}
	if systems != 1 {
		t.Errorf("found %d system messages, want 1", systems)
	}
}

func TestSendMessageConcurrentFirstSendsSeedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := companion.NewService(&fakeReplier{reply: "I hear you."}, logger.Discard())

	for range 50 {
		s := newStore(t)
		conv := newConversation(t, s)

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.SendMessage(ctx, s, conv.ID, "hello"); err != nil {
					t.Errorf("SendMessage() error = %v", err)
				}
			}()
		}
		wg.Wait()

		stored, err := s.GetConversation(ctx, conv.ID)
		if err != nil {
			t.Fatalf("GetConversation() error = %v", err)
		}
		systems := 0
		for _, m := range stored.Messages {
			if m.Role == model.RoleSystem {
				systems++
			}
		}
		if systems != 1 || stored.Messages[0].Role != model.RoleSystem {
			t.Fatalf("found %d system messages (first role %q), want exactly one leading", systems, stored.Messages[0].Role)
		}
		if len(stored.Messages) != 9 {
			t.Errorf("got %d messages, want 9", len(stored.Messages))
		}
	}
}

func TestSendMessageFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		replier      *fakeReplier
		timeout      time.Duration
		expected     string
		wantFallback bool
	}{
		{name: "Service error", replier: &fakeReplier{err: errors.New("unavailable")}, expected: companion.ApologyMessage, wantFallback: true},
		{name: "Timeout", replier: &fakeReplier{block: true}, timeout: 10 * time.Millisecond, expected: companion.ApologyMessage, wantFallback: true},
		{name: "Empty reply", replier: &fakeReplier{reply: "  \n"}, expected: companion.EmptyReplyMessage},
		{name: "Markdown stripped", replier: &fakeReplier{reply: "**Breathe** slowly."}, expected: "Breathe slowly."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newStore(t)
			conv := newConversation(t, s)
			svc := companion.NewService(tt.replier, logger.Discard(), companion.WithTimeout(tt.timeout))

			ex, err := svc.SendMessage(context.Background(), s, conv.ID, "hello")
			if err != nil {
				t.Fatalf("SendMessage() error = %v", err)
			}
			if ex.Reply.Content != tt.expected {
				t.Errorf("Reply = %q, want %q", ex.Reply.Content, tt.expected)
			}
			if ex.Reply.Role != model.RoleAssistant {
				t.Errorf("Reply role = %q, want assistant", ex.Reply.Role)
			}
			if ex.Fallback != tt.wantFallback {
				t.Errorf("Fallback = %v, want %v", ex.Fallback, tt.wantFallback)
			}

			stored, err := s.GetConversation(context.Background(), conv.ID)
			if err != nil || stored == nil {
				t.Fatalf("GetConversation() = %v, %v", stored, err)
			}
			if got := stored.Messages[len(stored.Messages)-1].Content; got != tt.expected {
				t.Errorf("stored reply = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSendMessageFlagsUserText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	conv := newConversation(t, s)
	svc := companion.NewService(&fakeReplier{reply: "I'm really glad you told me."}, logger.Discard())

	ex, err := svc.SendMessage(ctx, s, conv.ID, "Some days I think about suicide")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if !ex.UserMessage.Flagged || ex.UserMessage.FlagReason == "" {
		t.Errorf("UserMessage = %+v, want flagged", ex.UserMessage)
	}
	if ex.Reply.Flagged {
		t.Error("assistant reply should never be flagged")
	}
	if !ex.Conversation.HasFlaggedContent {
		t.Error("conversation should have flagged content")
	}

	flagged, err := s.ListFlagged(ctx)
	if err != nil {
		t.Fatalf("ListFlagged() error = %v", err)
	}
	if len(flagged) != 1 || flagged[0].Type != model.ContentChat {
		t.Errorf("ListFlagged() = %+v, want one chat record", flagged)
	}
}

func TestSendMessageEdgeCases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	replier := &fakeReplier{reply: "ok"}
	svc := companion.NewService(replier, logger.Discard())

	ex, err := svc.SendMessage(ctx, s, "missing", "hello")
	if err != nil || ex != nil {
		t.Errorf("SendMessage(missing) = %v, %v, want nil, nil", ex, err)
	}

	conv := newConversation(t, s)
	if _, err := svc.SendMessage(ctx, s, conv.ID, " \u200B\t"); !errors.Is(err, companion.ErrEmptyMessage) {
		t.Errorf("SendMessage(blank) error = %v, want ErrEmptyMessage", err)
	}
	if len(replier.received) != 0 {
		t.Errorf("replier called %d times, want 0", len(replier.received))
	}
}

func TestSendMessageTrimsHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	conv := newConversation(t, s)
	replier := &fakeReplier{reply: "noted"}
	svc := companion.NewService(replier, logger.Discard(), companion.WithMaxContextTokens(200))

	for range 10 {
		if _, err := svc.SendMessage(ctx, s, conv.ID, "a fairly long message about how the day went and what I felt"); err != nil {
			t.Fatalf("SendMessage() error = %v", err)
		}
	}

	sent := replier.last()
	stored, _ := s.GetConversation(ctx, conv.ID)
	if len(sent) >= len(stored.Messages)-1 {
		t.Errorf("replier received %d messages, want fewer than %d", len(sent), len(stored.Messages)-1)
	}
	if sent[0].Role != model.RoleSystem {
		t.Errorf("first message sent has role %q, want system", sent[0].Role)
	}
	if sent[len(sent)-1].Role != model.RoleUser {
		t.Errorf("last message sent has role %q, want user", sent[len(sent)-1].Role)
	}
}

func TestStartConversation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	svc := companion.NewService(&fakeReplier{reply: "hi"}, logger.Discard())

	first, err := svc.StartConversation(ctx, s)
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}
	if first.Title != model.DefaultConversationTitle {
		t.Errorf("Title = %q, want %q", first.Title, model.DefaultConversationTitle)
	}

	again, err := svc.StartConversation(ctx, s)
	if err != nil || again.ID != first.ID {
		t.Fatalf("StartConversation() = %v, %v, want the existing conversation", again, err)
	}

	second := newConversation(t, s)
	latest, _ := svc.StartConversation(ctx, s)
	if latest.ID != second.ID {
		t.Errorf("StartConversation() = %s, want newest %s", latest.ID, second.ID)
	}

	if _, err := svc.SendMessage(ctx, s, first.ID, "back to the first one"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	latest, _ = svc.StartConversation(ctx, s)
	if latest.ID != first.ID {
		t.Errorf("StartConversation() = %s, want recently used %s", latest.ID, first.ID)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	if companion.Latest(nil) != nil {
		t.Error("Latest(nil) should be nil")
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	convs := []model.Conversation{
		{ID: "a", UpdatedAt: base},
		{ID: "b", UpdatedAt: base.Add(time.Hour)},
		{ID: "c", UpdatedAt: base.Add(time.Minute)},
	}
	if got := companion.Latest(convs); got.ID != "b" {
		t.Errorf("Latest() = %s, want b", got.ID)
	}
}
