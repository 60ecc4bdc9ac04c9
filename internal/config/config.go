package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Fetch modes for result documents
const (
	FetchHTTP    = "http"
	FetchBrowser = "browser"
)

// Config is the process configuration read from the environment
type Config struct {
	DiscordToken     string
	DiscordChannelID string
	TeamName         string

	SchedulePath string
	ScheduleDSN  string
	RedisURL     string

	RestPort string
	WSPort   string

	ResultBaseURL string
	FetchMode     string
	FetchTimeout  time.Duration

	ReminderLeadDays int
	ReminderHour     int
	ReminderMinute   int
	RemindersEnabled bool

	LogLevel string
}

// Load reads .env when present, then the environment, and validates the result
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("team", cfg.TeamName).
		Str("schedule_path", cfg.SchedulePath).
		Bool("schedule_db", cfg.ScheduleDSN != "").
		Bool("redis", cfg.RedisURL != "").
		Bool("discord", cfg.DiscordToken != "").
		Str("fetch_mode", cfg.FetchMode).
		Int("lead_days", cfg.ReminderLeadDays).
		Str("fire_at", fmt.Sprintf("%02d:%02d", cfg.ReminderHour, cfg.ReminderMinute)).
		Msg("configuration loaded")

	return cfg, nil
}

// FromEnv reads every key with its default, without validation
func FromEnv() *Config {
	return &Config{
		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),
		TeamName:         getEnv("TEAM_NAME", "Dusty Danglers"),
		SchedulePath:     getEnv("SCHEDULE_PATH", "schedule.json"),
		ScheduleDSN:      getEnv("SCHEDULE_DSN", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RestPort:         getEnv("REST_PORT", "8080"),
		WSPort:           getEnv("WS_PORT", "8081"),
		ResultBaseURL:    getEnv("RESULT_BASE_URL", ""),
		FetchMode:        strings.ToLower(getEnv("FETCH_MODE", FetchHTTP)),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		ReminderLeadDays: getEnvInt("REMINDER_LEAD_DAYS", 3),
		ReminderHour:     getEnvInt("REMINDER_HOUR", 12),
		ReminderMinute:   getEnvInt("REMINDER_MINUTE", 0),
		RemindersEnabled: getEnvBool("REMINDERS_ENABLED", true),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks required keys and ranges
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TeamName) == "" {
		return fmt.Errorf("TEAM_NAME is required")
	}
	if c.SchedulePath == "" && c.ScheduleDSN == "" {
		return fmt.Errorf("one of SCHEDULE_PATH or SCHEDULE_DSN is required")
	}
	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		return fmt.Errorf("DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	if c.DiscordChannelID != "" {
		if _, err := strconv.ParseUint(c.DiscordChannelID, 10, 64); err != nil {
			return fmt.Errorf("DISCORD_CHANNEL_ID must be numeric: %w", err)
		}
	}
	if c.FetchMode != FetchHTTP && c.FetchMode != FetchBrowser {
		return fmt.Errorf("FETCH_MODE must be %q or %q, got %q", FetchHTTP, FetchBrowser, c.FetchMode)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be 0-23, got %d", c.ReminderHour)
	}
	if c.ReminderMinute < 0 || c.ReminderMinute > 59 {
		return fmt.Errorf("REMINDER_MINUTE must be 0-59, got %d", c.ReminderMinute)
	}
	if c.ReminderLeadDays < 0 {
		return fmt.Errorf("REMINDER_LEAD_DAYS must not be negative, got %d", c.ReminderLeadDays)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back on a missing or non-numeric value; Validate catches out-of-range ones
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
