// Package config loads the Zenify configuration from a YAML file, ZENIFY_*
// environment variables and built-in defaults, and validates the result.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every error returned while loading the configuration.
var ErrConfiguration = errors.New("configuration error")

// Config is the complete application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Companion CompanionConfig `mapstructure:"companion"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credentials. AdminUserID, when set, is seeded
// as an admin profile at startup.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"gte=0"`
}

// GeminiConfig configures the AI reply service.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"             validate:"required"`
	ModelName         string        `mapstructure:"model_name"          validate:"required"`
	Temperature       float32       `mapstructure:"temperature"         validate:"gte=0,lte=2"`
	MaxOutputTokens   int32         `mapstructure:"max_output_tokens"   validate:"gt=0"`
	MaxRetries        int           `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"gte=1s,lte=10m"`
	MaxContextTokens  int           `mapstructure:"max_context_tokens"  validate:"gte=0"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// CompanionConfig tunes the chat flow.
type CompanionConfig struct {
	// Timezone names the IANA zone used for calendar days (streaks, reminders).
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// MonitorConfig adds phrases to the built-in concerning keyword list.
type MonitorConfig struct {
	ExtraKeywords []string `mapstructure:"extra_keywords" validate:"dive,required"`
}

// SchedulerConfig lists the scheduled tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task on a cron schedule (seconds field included).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds the user-facing bot texts.
type MessagesConfig struct {
	Welcome             string `mapstructure:"welcome"              validate:"required"`
	Help                string `mapstructure:"help"                 validate:"required"`
	GeneralError        string `mapstructure:"general_error"        validate:"required"`
	Unauthorized        string `mapstructure:"unauthorized"         validate:"required"`
	ProvideMessage      string `mapstructure:"provide_message"      validate:"required"`
	JournalUsage        string `mapstructure:"journal_usage"        validate:"required"`
	MoodUsage           string `mapstructure:"mood_usage"           validate:"required"`
	SettingsUsage       string `mapstructure:"settings_usage"       validate:"required"`
	ConversationNew     string `mapstructure:"conversation_new"     validate:"required"`
	ConversationCleared string `mapstructure:"conversation_cleared" validate:"required"`
	MoodReminder        string `mapstructure:"mood_reminder"        validate:"required"`
	FlaggedSupport      string `mapstructure:"flagged_support"      validate:"required"`
}
