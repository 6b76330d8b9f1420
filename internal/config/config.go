package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultAppEnv   = "dev"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv      string
	LogLevel    string
	DBPath      string
	Port        string
	AutoMigrate bool
	SeedSample  bool
}

// Load reads environment variables and returns a populated Config. A .env file
// in the working directory is loaded first when present; variables already set
// in the environment win.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := Config{
		AppEnv:   getenvWithDefault("APP_ENV", defaultAppEnv),
		LogLevel: getenvWithDefault("LOG_LEVEL", defaultLogLevel),
		DBPath:   getenvWithDefault("DB_PATH", defaultDBPath),
		Port:     getenvWithDefault("PORT", defaultPort),
	}

	var err error
	if cfg.AutoMigrate, err = getenvBool("AUTO_MIGRATE", cfg.IsDev()); err != nil {
		return Config{}, err
	}
	if cfg.SeedSample, err = getenvBool("SEED_SAMPLE", cfg.IsDev()); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// IsDev reports whether the application runs in the local development environment.
func (c Config) IsDev() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "" || env == "dev" || env == "development" || env == "local"
}

// Warnings lists configuration values that are legal but probably unintended.
func (c Config) Warnings() []string {
	var warnings []string
	if !c.IsDev() && !c.AutoMigrate {
		warnings = append(warnings, "AUTO_MIGRATE is off; the schema must be migrated out of band")
	}
	if !c.IsDev() && c.SeedSample {
		warnings = append(warnings, "SEED_SAMPLE is on outside of dev")
	}
	if c.DBPath == defaultDBPath && !c.IsDev() {
		warnings = append(warnings, "DB_PATH is not set, using "+defaultDBPath)
	}
	return warnings
}

func getenvWithDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}
	return value, nil
}
