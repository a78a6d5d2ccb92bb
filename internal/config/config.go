// Package config loads application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// Config holds application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	GinMode         string        `mapstructure:"gin_mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig describes the relational store connection.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig points at the session store.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"`
	Store  string `mapstructure:"store"`
}

// LogConfig contains logger preferences.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the environment (and an optional .env file)
// with typed defaults and validation.
func Load() (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "hris")
	v.SetDefault("db.password", "hris")
	v.SetDefault("db.name", "hris")
	v.SetDefault("db.ssl_mode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("session.secret", "default-secret-key-change-me")
	v.SetDefault("session.max_age", 86400*7)
	v.SetDefault("session.store", "redis")

	v.SetDefault("log.level", "info")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port",
		"server.gin_mode",
		"server.shutdown_timeout",
		"db.driver",
		"db.host",
		"db.port",
		"db.user",
		"db.password",
		"db.name",
		"db.ssl_mode",
		"redis.host",
		"redis.port",
		"session.secret",
		"session.max_age",
		"session.store",
		"log.level",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// Validate ensures required fields are present and enumerations are known.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	switch c.DB.Driver {
	case "postgres", "mysql":
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return errors.New("db.host, db.user and db.name are required")
		}
	case "sqlite":
		if c.DB.Name == "" {
			return errors.New("db.name is required")
		}
	default:
		return fmt.Errorf("db.driver must be one of postgres, mysql, sqlite; got %q", c.DB.Driver)
	}
	switch c.Session.Store {
	case "redis", "cookie":
	default:
		return fmt.Errorf("session.store must be redis or cookie; got %q", c.Session.Store)
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	return nil
}

// ServerAddr returns the listen address for the HTTP server.
func (c Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// RedisAddr returns host:port of the session store.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// DSN returns a driver-specific connection string.
func (d DBConfig) DSN() string {
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		return d.Name
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
}
