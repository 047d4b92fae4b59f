package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for optional configuration keys.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDatabasePath = "./data/zenify.db"

	DefaultGeminiModel             = "gemini-1.5-pro-latest"
	DefaultGeminiTemperature       = 0.7
	DefaultGeminiMaxOutputTokens   = 512
	DefaultGeminiMaxRetries        = 2
	DefaultGeminiRetryDelaySeconds = 2
	DefaultGeminiTimeout           = 60 * time.Second
	DefaultGeminiMaxContextTokens  = 8000

	DefaultTimezone = "UTC"

	DefaultSQLMaintenanceSchedule = "0 0 4 * * 0"
	DefaultMoodReminderSchedule   = "0 0 20 * * *"
)

// DefaultMessages are the built-in bot texts.
var DefaultMessages = MessagesConfig{
	Welcome: "Welcome to Zenify, your mental wellness companion.\n\n" +
		"Just write to me whenever you want to talk. Use /help to see everything I can do.",
	Help: "Here is what I can do:\n\n" +
		"/journal Title | your thoughts #tag mood:good - write a journal entry\n" +
		"/journals [search] - list or search your journal\n" +
		"/deljournal <id> - delete a journal entry\n" +
		"/mood <great|good|neutral|bad|awful> [note] - track your mood\n" +
		"/moods - your recent moods\n" +
		"/stats - your progress\n" +
		"/new [title] - start a new conversation\n" +
		"/clear - clear the current conversation\n" +
		"/settings theme=dark font=large notify=on name=Sam - change settings\n" +
		"/export - download your data\n" +
		"Send an exported file with the caption /import to restore it.\n\n" +
		"Any other message goes to your companion.",
	GeneralError:        "Something went wrong. Please try again later.",
	Unauthorized:        "You are not authorized to use this command.",
	ProvideMessage:      "Please write a message first.",
	JournalUsage:        "Usage: /journal Title | what is on your mind #tag mood:good",
	MoodUsage:           "Usage: /mood <great|good|neutral|bad|awful> [note]",
	SettingsUsage:       "Usage: /settings theme=<light|dark> font=<small|medium|large> notify=<on|off> name=<name>",
	ConversationNew:     "Started a new conversation. What would you like to talk about?",
	ConversationCleared: "The conversation has been cleared.",
	MoodReminder:        "How are you feeling today? Track your mood with /mood.",
	FlaggedSupport: "It sounds like you are going through something really hard. You do not have to face it alone. " +
		"If you are in danger, please contact your local emergency number or a crisis line right away.",
}

// setDefaults registers the defaults of every optional key on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("telegram.admin_user_id", 0)

	v.SetDefault("gemini.model_name", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.max_output_tokens", DefaultGeminiMaxOutputTokens)
	v.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	v.SetDefault("gemini.retry_delay_seconds", DefaultGeminiRetryDelaySeconds)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)
	v.SetDefault("gemini.max_context_tokens", DefaultGeminiMaxContextTokens)

	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("companion.timezone", DefaultTimezone)

	v.SetDefault("monitor.extra_keywords", []string{})

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultSQLMaintenanceSchedule)
	v.SetDefault("scheduler.tasks.mood_reminder.enabled", true)
	v.SetDefault("scheduler.tasks.mood_reminder.schedule", DefaultMoodReminderSchedule)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.unauthorized", DefaultMessages.Unauthorized)
	v.SetDefault("messages.provide_message", DefaultMessages.ProvideMessage)
	v.SetDefault("messages.journal_usage", DefaultMessages.JournalUsage)
	v.SetDefault("messages.mood_usage", DefaultMessages.MoodUsage)
	v.SetDefault("messages.settings_usage", DefaultMessages.SettingsUsage)
	v.SetDefault("messages.conversation_new", DefaultMessages.ConversationNew)
	v.SetDefault("messages.conversation_cleared", DefaultMessages.ConversationCleared)
	v.SetDefault("messages.mood_reminder", DefaultMessages.MoodReminder)
	v.SetDefault("messages.flagged_support", DefaultMessages.FlaggedSupport)
}
