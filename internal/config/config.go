// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Port               string
	DBPath             string
	TemplateDir        string
	StaticDir          string
	SecureCookie       bool
	AdminUser          string
	AdminPassword      string
	AdminName          string
	SessionCleanupSpec string
}

// Load reads the environment after merging variables from envFile, if it
// exists. Variables already set in the environment take precedence.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	secure, err := boolEnv("SECURE_COOKIE", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "financeiro.db"),
		TemplateDir:        getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:          getEnv("STATIC_DIR", "web/static"),
		SecureCookie:       secure,
		AdminUser:          os.Getenv("ADMIN_USER"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		AdminName:          os.Getenv("ADMIN_NAME"),
		SessionCleanupSpec: getEnv("SESSION_CLEANUP_SPEC", "@hourly"),
	}, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
