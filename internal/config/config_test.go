package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("TASKBUDDY_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("AUTH_MODE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, AuthModeDev, cfg.Auth.Mode)
	assert.Equal(t, DefaultGame(), cfg.Game)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	p := writeFile(t, `
[server]
port = "9000"
read_timeout = "2s"

[game]
reward_coins = 25
play_happiness = 15

[app]
timezone = "UTC"
`)
	t.Setenv("PORT", "7070")
	t.Setenv("AUTH_MODE", "")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr(), "env gana sobre archivo")
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, 25, cfg.Game.RewardCoins)
	assert.Equal(t, 15, cfg.Game.PlayHappiness)
	assert.Equal(t, 20, cfg.Game.PlayExperience, "los campos ausentes conservan default")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"jwt without secret", func(c *Config) { c.Auth.Mode = AuthModeJWT }},
		{"remote without url", func(c *Config) { c.Auth.Mode = AuthModeRemote }},
		{"unknown mode", func(c *Config) { c.Auth.Mode = "magic" }},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }},
		{"negative reward", func(c *Config) { c.Game.RewardCoins = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}

	cfg := Default()
	cfg.Auth.Mode = AuthModeJWT
	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
