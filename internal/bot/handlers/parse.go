package handlers

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/profile"
	"github.com/zenify/companion/internal/text"
)

// ErrUsage is returned when command arguments do not match the command syntax.
var ErrUsage = errors.New("invalid command arguments")

// moodToken prefixes the optional mood of a journal entry, e.g. mood:good.
const moodToken = "mood:"

// ParseJournal parses "Title | content #tag mood:good". Tags and the mood token
// are taken out of the content. Without a mood token the entry gets fallback.
func ParseJournal(args string, fallback model.Mood) (profile.JournalInput, error) {
	title, body, ok := strings.Cut(text.NormalizeInput(args), "|")
	if !ok {
		return profile.JournalInput{}, fmt.Errorf("%w: missing title separator", ErrUsage)
	}

	in := profile.JournalInput{
		Title: strings.TrimSpace(title),
		Mood:  fallback,
		Tags:  []string{},
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		kept := make([]string, 0)
		for _, word := range strings.Fields(line) {
			switch {
			case len(word) > 1 && strings.HasPrefix(word, "#"):
				tag := strings.ToLower(strings.TrimRight(word[1:], ".,;:!?"))
				if tag != "" && !slices.Contains(in.Tags, tag) {
					in.Tags = append(in.Tags, tag)
				}
			case strings.HasPrefix(strings.ToLower(word), moodToken):
				m, err := model.ParseMood(word[len(moodToken):])
				if err != nil {
					return profile.JournalInput{}, fmt.Errorf("%w: %v", ErrUsage, err)
				}
				in.Mood = m
			default:
				kept = append(kept, word)
			}
		}
		lines[i] = strings.Join(kept, " ")
	}
	in.Content = strings.TrimSpace(strings.Join(lines, "\n"))

	if in.Title == "" || in.Content == "" {
		return profile.JournalInput{}, fmt.Errorf("%w: title and content are required", ErrUsage)
	}
	return in, nil
}

// ParseMoodArgs parses "<mood> [note]".
func ParseMoodArgs(args string) (model.Mood, string, error) {
	args = text.NormalizeInput(args)
	word, note := args, ""
	if i := strings.IndexFunc(args, unicode.IsSpace); i >= 0 {
		word, note = args[:i], args[i:]
	}
	if word == "" {
		return "", "", fmt.Errorf("%w: mood is required", ErrUsage)
	}
	m, err := model.ParseMood(word)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return m, strings.TrimSpace(note), nil
}

// SettingsChange is the result of parsing /settings arguments.
type SettingsChange struct {
	Settings model.Settings
	// Name is nil when the name is not changed.
	Name *string
}

// ParseSettings applies "key=value" pairs to current. Keys are theme, font,
// notify and name. The result always holds a complete settings object.
func ParseSettings(args string, current model.Settings) (SettingsChange, error) {
	fields := strings.Fields(text.NormalizeInput(args))
	if len(fields) == 0 {
		return SettingsChange{}, fmt.Errorf("%w: no settings given", ErrUsage)
	}

	change := SettingsChange{Settings: current}
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || value == "" {
			return SettingsChange{}, fmt.Errorf("%w: expected key=value, got %q", ErrUsage, field)
		}
		switch strings.ToLower(key) {
		case "theme":
			switch t := model.Theme(strings.ToLower(value)); t {
			case model.ThemeLight, model.ThemeDark:
				change.Settings.Theme = t
			default:
				return SettingsChange{}, fmt.Errorf("%w: unknown theme %q", ErrUsage, value)
			}
		case "font", "fontsize":
			switch f := model.FontSize(strings.ToLower(value)); f {
			case model.FontSizeSmall, model.FontSizeMedium, model.FontSizeLarge:
				change.Settings.FontSize = f
			default:
				return SettingsChange{}, fmt.Errorf("%w: unknown font size %q", ErrUsage, value)
			}
		case "notify", "notifications":
			on, err := parseSwitch(value)
			if err != nil {
				return SettingsChange{}, err
			}
			change.Settings.Notifications = on
		case "name":
			name := value
			change.Name = &name
		default:
			return SettingsChange{}, fmt.Errorf("%w: unknown setting %q", ErrUsage, key)
		}
	}
	return change, nil
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected on or off, got %q", ErrUsage, value)
	}
}

// ParseFlaggedArgs parses "[all|pending|reviewed] [user]". The user is a
// Telegram user id or a namespace; empty means every user.
func ParseFlaggedArgs(args string) (profile.FlagFilter, string, error) {
	filter := profile.FlagFilterPending
	namespace := ""
	for _, field := range strings.Fields(args) {
		if f, err := profile.ParseFlagFilter(strings.ToLower(field)); err == nil {
			filter = f
			continue
		}
		ns, err := parseUser(field)
		if err != nil {
			return "", "", err
		}
		namespace = ns
	}
	return filter, namespace, nil
}

// ParseReviewArgs parses "<flag id> [user]".
func ParseReviewArgs(args string) (string, string, error) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 1:
		return fields[0], "", nil
	case 2:
		ns, err := parseUser(fields[1])
		if err != nil {
			return "", "", err
		}
		return fields[0], ns, nil
	default:
		return "", "", fmt.Errorf("%w: expected a flag id and an optional user", ErrUsage)
	}
}

func parseUser(s string) (string, error) {
	if _, ok := ParseNamespace(s); ok {
		return s, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("%w: unknown user %q", ErrUsage, s)
	}
	return Namespace(id), nil
}
