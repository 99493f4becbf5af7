package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"heartbids/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL   string        `mapstructure:"base_url"`
		Key       string        `mapstructure:"key"`
		Timeout   time.Duration `mapstructure:"timeout"`
		RateLimit float64       `mapstructure:"rate_limit"`
		Burst     int           `mapstructure:"burst"`
	} `mapstructure:"api"`
	Listings struct {
		PageSize int `mapstructure:"page_size"`
		MaxPages int `mapstructure:"max_pages"`
	} `mapstructure:"listings"`
	Bidding struct {
		SubmitTimeout time.Duration `mapstructure:"submit_timeout"`
	} `mapstructure:"bidding"`
	Session struct {
		Path  string `mapstructure:"path"`
		Watch bool   `mapstructure:"watch"`
	} `mapstructure:"session"`
	Charity struct {
		MongoURI   string `mapstructure:"mongo_uri"`
		Database   string `mapstructure:"database"`
		Collection string `mapstructure:"collection"`
	} `mapstructure:"charity"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Sandbox struct {
		Addr     string        `mapstructure:"addr"`
		APIKey   string        `mapstructure:"api_key"`
		Secret   string        `mapstructure:"secret"`
		TokenTTL time.Duration `mapstructure:"token_ttl"`
		Seed     bool          `mapstructure:"seed"`
	} `mapstructure:"sandbox"`
}

const envPrefix = "HEARTBIDS"

// Load reads .env, then heartbids.yaml (explicit path or the default search dirs),
// then HEARTBIDS_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		utils.Warn("config: failed to load .env", map[string]any{"error": err.Error()})
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("heartbids")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "heartbids"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
		utils.Debug("config: no config file found, using defaults and environment", nil)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Session.Path = os.ExpandEnv(cfg.Session.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://v2.api.noroff.dev")
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.rate_limit", 5.0)
	v.SetDefault("api.burst", 10)

	v.SetDefault("listings.page_size", 30)
	v.SetDefault("listings.max_pages", 100)

	v.SetDefault("bidding.submit_timeout", 15*time.Second)

	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("session.watch", true)

	v.SetDefault("charity.mongo_uri", "")
	v.SetDefault("charity.database", "heartbids")
	v.SetDefault("charity.collection", "charitySelections")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("sandbox.addr", ":8089")
	v.SetDefault("sandbox.api_key", "sandbox-key")
	v.SetDefault("sandbox.secret", "heartbids-sandbox-secret")
	v.SetDefault("sandbox.token_ttl", 24*time.Hour)
	v.SetDefault("sandbox.seed", true)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".heartbids-session.json")
	}
	return filepath.Join(dir, "heartbids", "session.json")
}

// Validate rejects values the client cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return errors.New("config: api.base_url is required")
	case c.API.Timeout <= 0:
		return errors.New("config: api.timeout must be positive")
	case c.Listings.PageSize <= 0 || c.Listings.PageSize > 100:
		return errors.New("config: listings.page_size must be within [1:100]")
	case c.Listings.MaxPages <= 0:
		return errors.New("config: listings.max_pages must be positive")
	case c.Bidding.SubmitTimeout <= 0:
		return errors.New("config: bidding.submit_timeout must be positive")
	case c.Session.Path == "":
		return errors.New("config: session.path is required")
	}
	return nil
}
