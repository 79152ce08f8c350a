package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LOCAL_TIMEZONE", "UTC")
	t.Setenv("PROVIDER_CALL_TIMEOUT_SECONDS", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("ACTIONS_TOKEN", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "notes.db", cfg.SQLitePath)
	assert.Equal(t, "notes_prefs.json", cfg.FlagsPath)
	assert.Equal(t, time.UTC, cfg.LocalTimezone)
	assert.Equal(t, 10*time.Second, cfg.ProviderCallTimeout)
	assert.False(t, cfg.TwilioEnabled())
	assert.Empty(t, cfg.ActionsToken)
}

func TestLoadInvalidTimezoneFallsBack(t *testing.T) {
	t.Setenv("LOCAL_TIMEZONE", "Mars/Olympus_Mons")

	cfg := Load()

	assert.Equal(t, time.Local, cfg.LocalTimezone)
}

func TestParseEnvHelpers(t *testing.T) {
	t.Setenv("NOTES_INT", "42")
	t.Setenv("NOTES_BAD_INT", "forty")
	t.Setenv("NOTES_BOOL", "true")
	t.Setenv("NOTES_BAD_BOOL", "maybe")

	assert.Equal(t, 42, ParseIntEnv("NOTES_INT", 1))
	assert.Equal(t, 1, ParseIntEnv("NOTES_BAD_INT", 1))
	assert.Equal(t, 7, ParseIntEnv("NOTES_MISSING_INT", 7))
	assert.True(t, ParseBoolEnv("NOTES_BOOL", false))
	assert.True(t, ParseBoolEnv("NOTES_BAD_BOOL", true))
}
