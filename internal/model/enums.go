package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mood is the closed set of moods a user can record.
type Mood string

// Moods ordered from best to worst.
const (
	MoodGreat   Mood = "great"
	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodBad     Mood = "bad"
	MoodAwful   Mood = "awful"
)

// Moods lists every mood from best to worst.
var Moods = []Mood{MoodGreat, MoodGood, MoodNeutral, MoodBad, MoodAwful}

// Score maps a mood onto the 5..1 scale (great=5, awful=1). Unknown moods score 0.
func (m Mood) Score() int {
	switch m {
	case MoodGreat:
		return 5
	case MoodGood:
		return 4
	case MoodNeutral:
		return 3
	case MoodBad:
		return 2
	case MoodAwful:
		return 1
	default:
		return 0
	}
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool { return m.Score() > 0 }

// Label returns the capitalized mood name.
func (m Mood) Label() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// ParseMood parses a mood name case-insensitively.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return m, nil
}

// UnmarshalJSON rejects moods outside the enumeration.
func (m *Mood) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(m), "mood", func(s string) bool { return Mood(s).Valid() })
}

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// UnmarshalJSON rejects roles outside the enumeration.
func (r *Role) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(r), "role", func(s string) bool { return Role(s).Valid() })
}

// ContentType is the origin of a flagged content record.
type ContentType string

// Flagged content origins.
const (
	ContentChat    ContentType = "chat"
	ContentJournal ContentType = "journal"
)

// UnmarshalJSON rejects content types outside the enumeration.
func (c *ContentType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(c), "content type", func(s string) bool {
		return s == string(ContentChat) || s == string(ContentJournal)
	})
}

// Theme is the display theme.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UnmarshalJSON rejects themes outside the enumeration.
func (t *Theme) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(t), "theme", func(s string) bool {
		return s == string(ThemeLight) || s == string(ThemeDark)
	})
}

// FontSize is the display font size.
type FontSize string

// Font sizes.
const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// UnmarshalJSON rejects font sizes outside the enumeration.
func (f *FontSize) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(f), "font size", func(s string) bool {
		return s == string(FontSizeSmall) || s == string(FontSizeMedium) || s == string(FontSizeLarge)
	})
}

func unmarshalEnum(b []byte, dst *string, kind string, valid func(string) bool) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if !valid(s) {
		return fmt.Errorf("unknown %s %q", kind, s)
	}
	*dst = s
	return nil
}
