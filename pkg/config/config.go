package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	// Twitch chat
	Channel        string        `env:"TWITCH_CHANNEL,required,notEmpty"`
	BotUsername    string        `env:"TWITCH_BOT_USERNAME,required,notEmpty"`
	OAuthToken     string        `env:"TWITCH_OAUTH_TOKEN,required,notEmpty"`
	WebSocketURI   string        `env:"TWITCH_WEBSOCKET_URI" envDefault:"wss://irc-ws.chat.twitch.tv:443"`
	Admins         []string      `env:"BOT_ADMINS" envSeparator:","`
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY" envDefault:"5s"`

	// Per-team role counts
	TanksPerTeam    int `env:"TANKS_PER_TEAM" envDefault:"1"`
	DPSPerTeam      int `env:"DPS_PER_TEAM" envDefault:"2"`
	SupportsPerTeam int `env:"SUPPORTS_PER_TEAM" envDefault:"2"`

	// Storage
	StoreDriver  string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/pugs.db"`
	DatabaseURL  string `env:"DATABASE_URL"`

	HTTPAddr   string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"json"`
	DebugTools bool   `env:"DEBUG_TOOLS" envDefault:"false"`

	// Discord mirror, off unless both are set
	DiscordToken     string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Quotas returns the configured per-team role counts.
func (c *Config) Quotas() match.Quotas {
	return match.Quotas{Tanks: c.TanksPerTeam, DPS: c.DPSPerTeam, Supports: c.SupportsPerTeam}
}

// DiscordEnabled reports whether the Discord mirror should run.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("missing DATABASE_PATH for sqlite store")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("missing DATABASE_URL for postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want sqlite, postgres or memory)", c.StoreDriver)
	}
	if err := c.Quotas().Validate(); err != nil {
		return fmt.Errorf("team quotas: %w", err)
	}
	if c.ReconnectDelay <= 0 {
		return errors.New("RECONNECT_DELAY must be positive")
	}
	return nil
}

func (c *Config) Redacted() string {
	tok := "[set]"
	if c.OAuthToken == "" {
		tok = "[empty]"
	}
	discord := "off"
	if c.DiscordEnabled() {
		discord = "channel=" + c.DiscordChannelID
	}
	return fmt.Sprintf(
		"channel=%s bot=%s admins=%s quotas=%s store=%s http=%s discord=%s token=%s",
		c.Channel, c.BotUsername, strings.Join(c.Admins, ","), c.Quotas(), c.StoreDriver, c.HTTPAddr, discord, tok,
	)
}
