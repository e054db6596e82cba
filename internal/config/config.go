package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string
	LogMode  string // dev|prod

	DBDriver string
	DBDSN    string

	AuthHMACSecret string
	TokenTTL       time.Duration

	SessionDriver string // memory|redis
	RedisAddr     string
	SessionTTL    time.Duration

	CORSOrigins []string
}

const devSecret = "dev-only-change-me"

// Load reads an optional .env file from dir (skipped when dir is empty)
// and then the process environment, which wins.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("AUTH_HMAC_SECRET", "")
	v.SetDefault("TOKEN_TTL", "8h")
	v.SetDefault("SESSION_DRIVER", "memory")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	if dir != "" {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("config: read .env: %w", err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		LogMode:        strings.ToLower(v.GetString("LOG_MODE")),
		DBDriver:       v.GetString("DB_DRIVER"),
		DBDSN:          v.GetString("DB_DSN"),
		AuthHMACSecret: v.GetString("AUTH_HMAC_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		SessionDriver:  strings.ToLower(v.GetString("SESSION_DRIVER")),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CORSOrigins:    csv(v.GetString("CORS_ORIGINS")),
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.AuthHMACSecret == "" {
		if c.LogMode == "prod" || c.LogMode == "production" {
			return errors.New("config: AUTH_HMAC_SECRET is required in prod")
		}
		c.AuthHMACSecret = devSecret
	}
	switch c.SessionDriver {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("config: SESSION_DRIVER=redis needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_DRIVER %q", c.SessionDriver)
	}
	if c.TokenTTL <= 0 || c.SessionTTL <= 0 {
		return errors.New("config: TOKEN_TTL and SESSION_TTL must be positive")
	}
	return nil
}

func csv(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
