package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Data struct {
		Dir        string `yaml:"dir"`
		LedgerPath string `yaml:"ledger_path"`
	} `yaml:"data"`
	Video struct {
		FFmpegPath  string `yaml:"ffmpeg_path"`
		FPS         int    `yaml:"fps"`          // 0 keeps the preset value
		DurationSec int    `yaml:"duration_sec"` // 0 keeps the preset value
		HoldSec     int    `yaml:"hold_sec"`     // -1 keeps the preset value
		BitrateKbps int    `yaml:"bitrate_kbps"` // 0 keeps the preset value
	} `yaml:"video"`
	Audio struct {
		Path string `yaml:"path"`
	} `yaml:"audio"`
	CurrencySymbol string `yaml:"currency_symbol"` // overrides the preset locale symbol, e.g. "Rs."
	Telegram       struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	OpenAIKey string `yaml:"openai_key"`
	Schedule  struct {
		Cron    string   `yaml:"cron"`
		Presets []string `yaml:"presets"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; everything has a default
// or is optional.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Video.HoldSec = -1

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
	if v := os.Getenv("SIPREEL_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("SIPREEL_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("SIPREEL_FFMPEG"); v != "" {
		cfg.Video.FFmpegPath = v
	}
	if v := os.Getenv("SIPREEL_AUDIO"); v != "" {
		cfg.Audio.Path = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}

	// Defaults
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.LedgerPath == "" {
		cfg.Data.LedgerPath = cfg.Data.Dir + "/sipreel.db"
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 9 1 * *" // first of the month, 09:00
	}

	return cfg, nil
}

// Validate checks the fields that, when set, must be sane.
func (c *Config) Validate() error {
	if c.Video.FPS < 0 {
		return fmt.Errorf("video.fps must not be negative")
	}
	if c.Video.DurationSec < 0 {
		return fmt.Errorf("video.duration_sec must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}
