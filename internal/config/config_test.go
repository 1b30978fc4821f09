package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.TCPAddr)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.NopeWindow)
	assert.Equal(t, 30*time.Second, cfg.NopeHardExpiry)
	assert.Equal(t, 30*time.Second, cfg.PendingTimeout)
	assert.Equal(t, time.Hour, cfg.Retention)
	assert.Equal(t, 5*time.Minute, cfg.JanitorInterval)
	assert.Equal(t, 64, cfg.OutboxSize)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EK_TCP_ADDR", ":9000")
	t.Setenv("EK_GAME_NOPE_WINDOW", "2s")
	t.Setenv("EK_CONN_OUTBOX_SIZE", "16")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.TCPAddr)
	assert.Equal(t, 2*time.Second, cfg.NopeWindow)
	assert.Equal(t, 16, cfg.OutboxSize)
}

func TestFlagsBeatEnv(t *testing.T) {
	t.Setenv("EK_TCP_ADDR", ":9000")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--tcp-addr", ":1234", "--log-dev", "--nope-window", "1500ms"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.TCPAddr)
	assert.True(t, cfg.LogDevelopment)
	assert.Equal(t, 1500*time.Millisecond, cfg.NopeWindow)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hub:\n  retention: 2h\nlog:\n  level: debug\n"), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", path}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Retention)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load(nil)
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{name: "ok", mutate: func(*Config) {}, errs: 0},
		{name: "zero nope window", mutate: func(c *Config) { c.NopeWindow = 0 }, errs: 1},
		{name: "hard expiry below window", mutate: func(c *Config) { c.NopeHardExpiry = time.Second }, errs: 1},
		{name: "negative idle", mutate: func(c *Config) { c.IdleTimeout = -time.Second }, errs: 1},
		{name: "several", mutate: func(c *Config) {
			c.Retention = 0
			c.OutboxSize = 0
			c.TCPAddr = ""
		}, errs: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errs == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Len(t, multierr.Errors(err), tc.errs)
		})
	}
}
