package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix namespaces environment overrides, e.g. EK_TCP_ADDR.
const EnvPrefix = "EK"

type Config struct {
	TCPAddr  string
	HTTPAddr string

	LogLevel       string
	LogDevelopment bool

	NopeWindow     time.Duration
	NopeHardExpiry time.Duration
	PendingTimeout time.Duration

	Retention       time.Duration
	JanitorInterval time.Duration

	OutboxSize   int
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// WSOrigins are extra origin patterns accepted by the WebSocket upgrade.
	WSOrigins []string
}

var defaults = map[string]any{
	"tcp.addr":              ":7777",
	"http.addr":             ":8080",
	"log.level":             "info",
	"log.development":       false,
	"game.nope_window":      5 * time.Second,
	"game.nope_hard_expiry": 30 * time.Second,
	"game.pending_timeout":  30 * time.Second,
	"hub.retention":         time.Hour,
	"hub.janitor_interval":  5 * time.Minute,
	"conn.outbox_size":      64,
	"conn.write_timeout":    3 * time.Second,
	"conn.idle_timeout":     10 * time.Minute,
	"ws.origins":            []string{},
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"tcp-addr":    "tcp.addr",
	"http-addr":   "http.addr",
	"log-level":   "log.level",
	"log-dev":     "log.development",
	"nope-window": "game.nope_window",
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("tcp-addr", defaults["tcp.addr"].(string), "TCP listen address")
	fs.String("http-addr", defaults["http.addr"].(string), "HTTP listen address (health, games list, WebSocket)")
	fs.String("log-level", defaults["log.level"].(string), "log level: debug, info, warn, error")
	fs.Bool("log-dev", false, "human readable development logging")
	fs.Duration("nope-window", defaults["game.nope_window"].(time.Duration), "time other players have to answer with a Nope")
	fs.String("config", "", "optional config file (yaml, toml or json)")
}

// Load reads .env (if present), the optional config file, EK_ environment
// variables and the flags in fs, in increasing priority.
func Load(fs *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		TCPAddr:         v.GetString("tcp.addr"),
		HTTPAddr:        v.GetString("http.addr"),
		LogLevel:        v.GetString("log.level"),
		LogDevelopment:  v.GetBool("log.development"),
		NopeWindow:      v.GetDuration("game.nope_window"),
		NopeHardExpiry:  v.GetDuration("game.nope_hard_expiry"),
		PendingTimeout:  v.GetDuration("game.pending_timeout"),
		Retention:       v.GetDuration("hub.retention"),
		JanitorInterval: v.GetDuration("hub.janitor_interval"),
		OutboxSize:      v.GetInt("conn.outbox_size"),
		WriteTimeout:    v.GetDuration("conn.write_timeout"),
		IdleTimeout:     v.GetDuration("conn.idle_timeout"),
		WSOrigins:       v.GetStringSlice("ws.origins"),
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	durations := []struct {
		key string
		d   time.Duration
	}{
		{"game.nope_window", c.NopeWindow},
		{"game.nope_hard_expiry", c.NopeHardExpiry},
		{"game.pending_timeout", c.PendingTimeout},
		{"hub.retention", c.Retention},
		{"hub.janitor_interval", c.JanitorInterval},
		{"conn.write_timeout", c.WriteTimeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s must be positive, got %s", d.key, d.d))
		}
	}
	if c.IdleTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("conn.idle_timeout must not be negative, got %s", c.IdleTimeout))
	}
	if c.NopeHardExpiry < c.NopeWindow {
		err = multierr.Append(err, errors.New("game.nope_hard_expiry must be at least game.nope_window"))
	}
	if c.OutboxSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("conn.outbox_size must be positive, got %d", c.OutboxSize))
	}
	if c.TCPAddr == "" {
		err = multierr.Append(err, errors.New("tcp.addr is required"))
	}
	return err
}
