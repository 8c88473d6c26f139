package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("MC_SERVERS", "")
	t.Setenv("DATA_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STATUS_UPDATE_INTERVAL", "")
	t.Setenv("ADMIN_LOG_INTERVAL", "")
	t.Setenv("EXPIRATION_CHECK_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Servers)
	assert.Equal(t, "./data/data.json", cfg.DataPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.StatusUpdateInterval)
	assert.Equal(t, 30*time.Minute, cfg.AdminLogInterval)
	assert.Equal(t, time.Hour, cfg.ExpirationCheckInterval)
}

func TestLoadParsesServerList(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("MC_SERVERS", " play.example.com:25565 , , mini.example.com ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"play.example.com:25565", "mini.example.com"}, cfg.Servers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("OWNER_ID", "42")
	t.Setenv("SURVIVAL_IP", "sv.example.com")
	t.Setenv("LIFESTEAL_IP", "ls.example.com")
	t.Setenv("STATUS_CHANNEL_ID", "123")
	t.Setenv("STATUS_UPDATE_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "42", cfg.OwnerID)
	assert.Equal(t, "sv.example.com", cfg.SurvivalIP)
	assert.Equal(t, "ls.example.com", cfg.LifestealIP)
	assert.Equal(t, "123", cfg.LegacyStatusChannelID)
	assert.Equal(t, 90*time.Second, cfg.StatusUpdateInterval)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ADMIN_LOG_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_LOG_INTERVAL")

	t.Setenv("ADMIN_LOG_INTERVAL", "-5m")
	_, err = Load()
	require.Error(t, err)
}
