package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type InfoConfiguration struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Contact     string `toml:"contact"`
	PubKey      string `toml:"pubkey"`
}

type LoggingConfiguration struct {
	Verbose bool   `toml:"verbose"`
	Format  string `toml:"format"` // "console" or "json"
}

// WebSocketConfiguration holds connection timings, in seconds, and the inbound frame size cap in bytes.
type WebSocketConfiguration struct {
	WriteWaitSeconds  int   `toml:"write_wait_seconds"`
	PongWaitSeconds   int   `toml:"pong_wait_seconds"`
	PingPeriodSeconds int   `toml:"ping_period_seconds"`
	MaxMessageSize    int64 `toml:"max_message_size"`
}

func (w WebSocketConfiguration) WriteWait() time.Duration {
	return time.Duration(w.WriteWaitSeconds) * time.Second
}

func (w WebSocketConfiguration) PongWait() time.Duration {
	return time.Duration(w.PongWaitSeconds) * time.Second
}

func (w WebSocketConfiguration) PingPeriod() time.Duration {
	return time.Duration(w.PingPeriodSeconds) * time.Second
}

type Configuration struct {
	Host             string   `toml:"host"`
	Port             int      `toml:"port"`
	SeedFiles        []string `toml:"seed_files"`
	VerifySignatures bool     `toml:"verify_signatures"`
	StrictOK         bool     `toml:"strict_ok"`

	Info      InfoConfiguration      `toml:"info"`
	Logging   LoggingConfiguration   `toml:"logging"`
	WebSocket WebSocketConfiguration `toml:"websocket"`
}

func Default() *Configuration {
	return &Configuration{
		Host: "0.0.0.0",
		Port: 7447,
		Info: InfoConfiguration{
			Name:        "memrelay",
			Description: "an in-memory nostr relay",
		},
		Logging: LoggingConfiguration{
			Format: "console",
		},
		WebSocket: WebSocketConfiguration{
			WriteWaitSeconds:  10,
			PongWaitSeconds:   60,
			PingPeriodSeconds: 30,
			MaxMessageSize:    512000,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path means defaults only.
func Load(path string) (*Configuration, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	return config, nil
}

func (c *Configuration) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format '%s', use 'console' or 'json'", c.Logging.Format)
	}

	ws := c.WebSocket
	if ws.WriteWaitSeconds <= 0 || ws.PongWaitSeconds <= 0 || ws.PingPeriodSeconds <= 0 {
		return errors.New("websocket timings must be positive")
	}
	if ws.PingPeriodSeconds >= ws.PongWaitSeconds {
		return fmt.Errorf("ping period (%ds) must be shorter than pong wait (%ds)", ws.PingPeriodSeconds, ws.PongWaitSeconds)
	}
	if ws.MaxMessageSize <= 0 {
		return fmt.Errorf("invalid max message size: %d", ws.MaxMessageSize)
	}

	return nil
}
