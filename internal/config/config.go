package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/ru-menu/internal/scheduler"
	"github.com/pfrederiksen/ru-menu/internal/scraper"
)

const (
	EnvPrefix       = "RU_MENU"
	DefaultDataDir  = "~/.local/share/ru-menu"
	DefaultSendAt   = "11:00"
	DefaultTimezone = "America/Fortaleza"
	DefaultListen   = ":8080"
)

var (
	ErrMissingToken  = errors.New("telegram bot token not set (TOKEN or RU_MENU_TOKEN)")
	ErrMissingChatID = errors.New("telegram chat ID not set (CHAT_ID or RU_MENU_CHAT_ID)")
)

// Config holds the application configuration
type Config struct {
	Token    string `mapstructure:"token"`
	ChatID   string `mapstructure:"chat_id"`
	MenuURL  string `mapstructure:"menu_url"`
	DataDir  string `mapstructure:"data_dir"`
	SendAt   string `mapstructure:"send_at"`
	Timezone string `mapstructure:"timezone"`
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log_level"`
	Twitter  bool   `mapstructure:"twitter"`
}

// NewViper returns a viper instance with defaults and env bindings applied
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("token", "")
	v.SetDefault("chat_id", "")
	v.SetDefault("menu_url", scraper.MenuURL)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("send_at", DefaultSendAt)
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("log_level", "info")
	v.SetDefault("twitter", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	mustBindEnv(v, "token", EnvPrefix+"_TOKEN", "TOKEN")
	mustBindEnv(v, "chat_id", EnvPrefix+"_CHAT_ID", "CHAT_ID")
	mustBindEnv(v, "log_level", EnvPrefix+"_LOG_LEVEL", EnvPrefix+"_LOG")

	return v
}

// mustBindEnv binds key to the given variables, first set wins
func mustBindEnv(v *viper.Viper, key string, envs ...string) {
	if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
		panic(fmt.Sprintf("binding env for %s: %v", key, err))
	}
}

// Load reads the config file (explicit path, or ru-menu.yaml in the usual
// places) and unmarshals the merged settings. A missing default config file
// is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("ru-menu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ru-menu"))
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.ChatID = strings.TrimSpace(cfg.ChatID)

	return &cfg, nil
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings every command depends on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MenuURL) == "" {
		return errors.New("menu_url must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, err := scheduler.ParseClock(c.SendAt); err != nil {
		return fmt.Errorf("send_at: %w", err)
	}
	return nil
}

// RequireToken reports whether the Telegram bot token is set
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// RequireChat reports whether both token and delivery chat are set
func (c *Config) RequireChat() error {
	if err := c.RequireToken(); err != nil {
		return err
	}
	if c.ChatID == "" {
		return ErrMissingChatID
	}
	return nil
}

// Location loads the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
