package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port                 string
	DatabaseURL          string
	SQLitePath           string
	FlagsPath            string
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	NotifyWhatsAppTo     string
	TwilioWebhookURL     string
	ActionsToken         string
	OpenAIAPIKey         string
	LocalTimezone        *time.Location
	LockPINHash          string
	LogLevel             string
	LogPretty            bool
	ProviderCallTimeout  time.Duration
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Warn().Err(err).Str("timezone", timezoneName).Msg("config: invalid LOCAL_TIMEZONE, defaulting to system local")
		location = time.Local
	}

	return &Config{
		Port:                 getenvDefault("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SQLitePath:           getenvDefault("SQLITE_PATH", "notes.db"),
		FlagsPath:            getenvDefault("PREFS_FLAGS_PATH", "notes_prefs.json"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		NotifyWhatsAppTo:     os.Getenv("NOTIFY_WHATSAPP_TO"),
		TwilioWebhookURL:     os.Getenv("TWILIO_WEBHOOK_URL"),
		ActionsToken:         os.Getenv("ACTIONS_TOKEN"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		LocalTimezone:        location,
		LockPINHash:          os.Getenv("LOCK_PIN_HASH"),
		LogLevel:             getenvDefault("LOG_LEVEL", "info"),
		LogPretty:            ParseBoolEnv("LOG_PRETTY", false),
		ProviderCallTimeout:  time.Duration(ParseIntEnv("PROVIDER_CALL_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// TwilioEnabled reports whether enough Twilio settings are present to deliver notifications.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppNumber != "" && c.NotifyWhatsAppTo != ""
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseIntEnv returns the integer value for an environment variable or the provided default.
func ParseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("value", value).Msg("config: unable to parse int")
		return def
	}
	return parsed
}

// ParseBoolEnv returns the boolean value for an environment variable or the provided default.
func ParseBoolEnv(key string, def bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("value", value).Msg("config: unable to parse bool")
		return def
	}
	return parsed
}
