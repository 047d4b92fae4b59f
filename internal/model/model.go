// Package model defines the documents persisted by the profile store: the user
// profile with its journals, mood history and conversations, and the flagged
// content log kept alongside it.
package model

import "time"

// SchemaVersion is written into every profile document.
const SchemaVersion = 1

// DefaultConversationTitle is used when a conversation is created without a title.
const DefaultConversationTitle = "New Conversation"

// UserProfile is the single root document of a storage namespace.
type UserProfile struct {
	SchemaVersion int            `json:"schemaVersion"`
	Name          string         `json:"name"`
	IsAdmin       bool           `json:"isAdmin"`
	Mood          MoodState      `json:"mood"`
	Journals      []JournalEntry `json:"journals"`
	Conversations []Conversation `json:"conversations"`
	Settings      Settings       `json:"settings"`
}

// MoodState holds the latest mood and the append-only mood history.
type MoodState struct {
	Current Mood        `json:"current"`
	History []MoodEntry `json:"history"`
}

// Settings are the user's display preferences. They are always replaced as a whole.
type Settings struct {
	Theme         Theme    `json:"theme"`
	Notifications bool     `json:"notifications"`
	FontSize      FontSize `json:"fontSize"`
}

// MoodEntry records one mood check-in.
type MoodEntry struct {
	ID   string    `json:"id"`
	Mood Mood      `json:"mood"`
	Note string    `json:"note"`
	Date time.Time `json:"date"`
}

// JournalEntry is a journal page. ID and CreatedAt never change after creation.
type JournalEntry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Mood       Mood      `json:"mood"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Flagged    bool      `json:"flagged"`
	FlagReason string    `json:"flagReason,omitempty"`
}

// Conversation is an ordered chat history with the companion.
type Conversation struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Messages          []ChatMessage `json:"messages"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	HasFlaggedContent bool          `json:"hasFlaggedContent"`
}

// RecomputeFlagged sets HasFlaggedContent to the logical OR of all message flags.
func (c *Conversation) RecomputeFlagged() {
	c.HasFlaggedContent = false
	for _, m := range c.Messages {
		if m.Flagged {
			c.HasFlaggedContent = true
			return
		}
	}
}

// ChatMessage is immutable once appended to a conversation.
type ChatMessage struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Flagged    bool      `json:"flagged"`
	FlagReason string    `json:"flagReason,omitempty"`
}

// FlaggedContent is a review record created when stored text matches a concerning keyword.
type FlaggedContent struct {
	ID         string      `json:"id"`
	Type       ContentType `json:"type"`
	Content    string      `json:"content"`
	Reason     string      `json:"reason"`
	Timestamp  time.Time   `json:"timestamp"`
	Reviewed   bool        `json:"reviewed"`
	ReviewedAt *time.Time  `json:"reviewedAt,omitempty"`
	ReviewedBy string      `json:"reviewedBy,omitempty"`
}

// DefaultProfile returns the document written the first time a namespace is accessed.
func DefaultProfile() UserProfile {
	return UserProfile{
		SchemaVersion: SchemaVersion,
		Mood: MoodState{
			Current: MoodNeutral,
			History: []MoodEntry{},
		},
		Journals:      []JournalEntry{},
		Conversations: []Conversation{},
		Settings: Settings{
			Theme:         ThemeLight,
			Notifications: false,
			FontSize:      FontSizeMedium,
		},
	}
}
