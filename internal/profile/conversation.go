package profile

import (
	"context"
	"errors"

	"github.com/zenify/companion/internal/model"
)

// MessageInput holds the caller-supplied fields of a chat message.
type MessageInput struct {
	Role    model.Role
	Content string
	// SeedIfEmpty, when set, is appended ahead of the message if the
	// conversation has no messages yet. Both land in the same write.
	SeedIfEmpty *MessageInput
}

// ConversationPatch lists conversation fields to replace. Nil fields are left alone.
type ConversationPatch struct {
	Title    *string
	Messages *[]model.ChatMessage
}

// GetConversations returns the conversations in insertion order.
func (s *Store) GetConversations(ctx context.Context) ([]model.Conversation, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return p.Conversations, nil
}

// GetConversation returns the conversation with id, or nil if there is none.
func (s *Store) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	idx := findConversation(p.Conversations, id)
	if idx < 0 {
		return nil, nil
	}
	c := p.Conversations[idx]
	return &c, nil
}

// CreateConversation appends a conversation with no messages. An empty title
// becomes model.DefaultConversationTitle.
func (s *Store) CreateConversation(ctx context.Context, title string) (*model.Conversation, error) {
	if title == "" {
		title = model.DefaultConversationTitle
	}
	var c model.Conversation
	_, err := s.mutateProfile(ctx, func(p *model.UserProfile) error {
		now := s.timestamp()
		c = model.Conversation{
			ID:        s.newID(),
			Title:     title,
			Messages:  []model.ChatMessage{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		p.Conversations = append(p.Conversations, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Conversation created", "conversation_id", c.ID)
	return &c, nil
}

// UpdateConversation shallow-merges patch into the conversation with id and
// refreshes updatedAt. Replacing the messages bypasses the content monitor;
// hasFlaggedContent is recomputed from the new messages. It returns nil when no
// such conversation exists.
func (s *Store) UpdateConversation(ctx context.Context, id string, patch ConversationPatch) (*model.Conversation, error) {
	if patch.Messages != nil {
		for _, m := range *patch.Messages {
			if !m.Role.Valid() {
				return nil, invalidInput("unknown role %q", m.Role)
			}
		}
	}
	var c model.Conversation
	_, err := s.mutateProfile(ctx, func(p *model.UserProfile) error {
		idx := findConversation(p.Conversations, id)
		if idx < 0 {
			return errNoChange
		}
		c = p.Conversations[idx]
		if patch.Title != nil {
			c.Title = *patch.Title
		}
		if patch.Messages != nil {
			c.Messages = append([]model.ChatMessage{}, *patch.Messages...)
		}
		c.RecomputeFlagged()
		c.UpdatedAt = s.touch(c.UpdatedAt)
		p.Conversations[idx] = c
		return nil
	})
	if errors.Is(err, errNoChange) {
		s.logger.DebugContext(ctx, "Conversation not found", "conversation_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ClearConversation replaces the messages of the conversation with id by an
// empty list. It returns nil when no such conversation exists.
func (s *Store) ClearConversation(ctx context.Context, id string) (*model.Conversation, error) {
	empty := []model.ChatMessage{}
	return s.UpdateConversation(ctx, id, ConversationPatch{Messages: &empty})
}

// AppendMessage appends a message to the conversation with id. Only user
// messages are checked by the content monitor; a flagged message also creates a
// flagged content record. It returns the updated conversation, or nil when no
// such conversation exists.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, in MessageInput) (*model.Conversation, error) {
	if !in.Role.Valid() {
		return nil, invalidInput("unknown role %q", in.Role)
	}
	if in.SeedIfEmpty != nil && !in.SeedIfEmpty.Role.Valid() {
		return nil, invalidInput("unknown role %q", in.SeedIfEmpty.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	idx := findConversation(p.Conversations, conversationID)
	if idx < 0 {
		s.logger.DebugContext(ctx, "Conversation not found", "conversation_id", conversationID)
		return nil, nil
	}

	c := p.Conversations[idx]
	inputs := []MessageInput{in}
	if in.SeedIfEmpty != nil && len(c.Messages) == 0 {
		inputs = []MessageInput{*in.SeedIfEmpty, in}
	}

	msgs := append([]model.ChatMessage{}, c.Messages...)
	for _, mi := range inputs {
		msg, err := s.newMessage(ctx, mi)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
		s.logger.DebugContext(ctx, "Message appended",
			"conversation_id", conversationID, "message_id", msg.ID, "role", msg.Role, "flagged", msg.Flagged)
	}

	c.Messages = msgs
	c.RecomputeFlagged()
	c.UpdatedAt = s.touch(c.UpdatedAt)
	p.Conversations[idx] = c

	if err := s.saveProfile(ctx, p); err != nil {
		return nil, err
	}
	return &c, nil
}

// newMessage builds a stored message from in, running user content through the
// monitor. Must be called with s.mu held.
func (s *Store) newMessage(ctx context.Context, in MessageInput) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		ID:        s.newID(),
		Role:      in.Role,
		Content:   in.Content,
		Timestamp: s.timestamp(),
	}
	if in.Role != model.RoleUser {
		return msg, nil
	}
	verdict := s.monitor.Check(in.Content)
	msg.Flagged = verdict.Flagged
	msg.FlagReason = verdict.Reason
	if verdict.Flagged {
		if _, err := s.addFlagged(ctx, model.ContentChat, in.Content, verdict.Reason); err != nil {
			return model.ChatMessage{}, err
		}
	}
	return msg, nil
}

// DeleteConversation removes the conversation with id. It reports whether one was removed.
func (s *Store) DeleteConversation(ctx context.Context, id string) (bool, error) {
	var removed bool
	_, err := s.mutateProfile(ctx, func(p *model.UserProfile) error {
		idx := findConversation(p.Conversations, id)
		if idx < 0 {
			return errNoChange
		}
		p.Conversations = append(p.Conversations[:idx], p.Conversations[idx+1:]...)
		removed = true
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return false, err
	}
	return removed, nil
}

func findConversation(convs []model.Conversation, id string) int {
	for i := range convs {
		if convs[i].ID == id {
			return i
		}
	}
	return -1
}
