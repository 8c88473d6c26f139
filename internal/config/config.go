package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string
	OwnerID      string

	// Minecraft status polling
	Servers     []string
	SurvivalIP  string
	LifestealIP string

	// Legacy builds configured a single status channel via env instead of /set
	LegacyStatusChannelID string

	// Storage
	DataPath string

	// Timer cadences
	StatusUpdateInterval    time.Duration
	AdminLogInterval        time.Duration
	ExpirationCheckInterval time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:          os.Getenv("DISCORD_TOKEN"),
		OwnerID:               os.Getenv("OWNER_ID"),
		SurvivalIP:            os.Getenv("SURVIVAL_IP"),
		LifestealIP:           os.Getenv("LIFESTEAL_IP"),
		LegacyStatusChannelID: os.Getenv("STATUS_CHANNEL_ID"),
		DataPath:              getEnvOrDefault("DATA_PATH", "./data/data.json"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Comma-separated list of server addresses to poll
	for _, addr := range strings.Split(os.Getenv("MC_SERVERS"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			cfg.Servers = append(cfg.Servers, addr)
		}
	}

	var err error
	if cfg.StatusUpdateInterval, err = getEnvDuration("STATUS_UPDATE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AdminLogInterval, err = getEnvDuration("ADMIN_LOG_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ExpirationCheckInterval, err = getEnvDuration("EXPIRATION_CHECK_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
