// Package config loads runtime settings from .env, an optional config file and SKINCARE_* variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	FlashCookie = "cookie"
	FlashRedis  = "redis"
)

type Config struct {
	Server struct {
		Addr  string `mapstructure:"addr"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"server"`
	Database struct {
		Driver string `mapstructure:"driver"`
		URL    string `mapstructure:"url"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Flash struct {
		Store  string        `mapstructure:"store"`
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"flash"`
	Static struct {
		Root string `mapstructure:"root"`
	} `mapstructure:"static"`
	Worker struct {
		Count int `mapstructure:"count"`
	} `mapstructure:"worker"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load() // .env 可有可無

	v := viper.New()
	v.SetEnvPrefix("SKINCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8085")
	v.SetDefault("server.debug", false)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", "data/skincare.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("flash.store", FlashCookie)
	v.SetDefault("flash.secret", "")
	v.SetDefault("flash.ttl", "5m")
	v.SetDefault("static.root", "static")
	v.SetDefault("worker.count", 2)
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("SKINCARE_DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("SKINCARE_DATABASE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Flash.Store {
	case FlashCookie:
		if c.Flash.Secret == "" {
			return errors.New("SKINCARE_FLASH_SECRET is required for the cookie flash store")
		}
	case FlashRedis:
		if c.Redis.Addr == "" {
			return errors.New("SKINCARE_REDIS_ADDR is required for the redis flash store")
		}
	default:
		return fmt.Errorf("unknown flash store %q", c.Flash.Store)
	}

	if c.Flash.TTL <= 0 {
		return fmt.Errorf("invalid flash ttl %s", c.Flash.TTL)
	}
	if c.Worker.Count <= 0 {
		return fmt.Errorf("invalid worker count %d", c.Worker.Count)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
