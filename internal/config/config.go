package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stablesim/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Simulation model.Params `yaml:"simulation"`
	Run        struct {
		Seed             int64 `yaml:"seed"`
		MaxTicks         int   `yaml:"max_ticks"`
		SnapshotInterval int   `yaml:"snapshot_interval"`
		LogInterval      int   `yaml:"log_interval"`
	} `yaml:"run"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		BatchCron string `yaml:"batch_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Simulation parameters are pre-filled with the defaults before
// parsing, so a missing or partial file still yields a runnable setup while
// explicit values, including zeros, win over the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Simulation = model.DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CRON_BATCH"); v != "" {
		cfg.Schedule.BatchCron = v
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		var seed int64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Run.Seed = seed
		}
	}
	if v := os.Getenv("MAX_TICKS"); v != "" {
		var ticks int
		if _, err := fmt.Sscanf(v, "%d", &ticks); err == nil {
			cfg.Run.MaxTicks = ticks
		}
	}

	// Defaults. A negative max_ticks removes the bound entirely.
	if cfg.Run.MaxTicks == 0 {
		cfg.Run.MaxTicks = 10000
	}
	if cfg.Run.LogInterval == 0 {
		cfg.Run.LogInterval = 100
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stablesim.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Schedule.BatchCron == "" {
		cfg.Schedule.BatchCron = "0 0 6 * * *"
	}

	return cfg, nil
}

// Validate checks the simulation parameters against their documented ranges
// and the host settings for basic sanity.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.Run.SnapshotInterval < 0 {
		return fmt.Errorf("run.snapshot_interval must not be negative")
	}
	if c.Run.LogInterval < 0 {
		return fmt.Errorf("run.log_interval must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
