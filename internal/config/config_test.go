package config

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"TEAM_NAME", "REMINDER_LEAD_DAYS", "REMINDER_HOUR", "REMINDER_MINUTE", "FETCH_MODE", "SCHEDULE_PATH", "DISCORD_TOKEN", "DISCORD_CHANNEL_ID", "FETCH_TIMEOUT", "REMINDERS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.ReminderLeadDays != 3 || cfg.ReminderHour != 12 || cfg.ReminderMinute != 0 {
		t.Fatalf("reminder defaults = %d %d:%d", cfg.ReminderLeadDays, cfg.ReminderHour, cfg.ReminderMinute)
	}
	if cfg.FetchMode != FetchHTTP || cfg.FetchTimeout != 30*time.Second || !cfg.RemindersEnabled {
		t.Fatalf("fetch defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("TEAM_NAME", "Ice Holes")
	t.Setenv("REMINDER_LEAD_DAYS", "4")
	t.Setenv("REMINDER_HOUR", "9")
	t.Setenv("REMINDER_MINUTE", "30")
	t.Setenv("FETCH_MODE", "Browser")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_CHANNEL_ID", "123456789")
	t.Setenv("REMINDERS_ENABLED", "false")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TeamName != "Ice Holes" || cfg.ReminderLeadDays != 4 || cfg.ReminderHour != 9 || cfg.ReminderMinute != 30 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.FetchMode != FetchBrowser || cfg.RemindersEnabled {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing team", func(c *Config) { c.TeamName = " " }, "TEAM_NAME"},
		{"no schedule", func(c *Config) { c.SchedulePath = ""; c.ScheduleDSN = "" }, "SCHEDULE_PATH"},
		{"token without channel", func(c *Config) { c.DiscordToken = "t" }, "set together"},
		{"channel not numeric", func(c *Config) { c.DiscordToken = "t"; c.DiscordChannelID = "general" }, "numeric"},
		{"bad fetch mode", func(c *Config) { c.FetchMode = "curl" }, "FETCH_MODE"},
		{"hour", func(c *Config) { c.ReminderHour = 24 }, "REMINDER_HOUR"},
		{"minute", func(c *Config) { c.ReminderMinute = -1 }, "REMINDER_MINUTE"},
		{"lead", func(c *Config) { c.ReminderLeadDays = -2 }, "REMINDER_LEAD_DAYS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				TeamName:       "Dusty Danglers",
				SchedulePath:   "schedule.json",
				FetchMode:      FetchHTTP,
				FetchTimeout:   time.Second,
				ReminderHour:   12,
				ReminderMinute: 0,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REMINDER_HOUR", "noon")
	if got := getEnvInt("REMINDER_HOUR", 12); got != 12 {
		t.Fatalf("getEnvInt = %d", got)
	}
}
