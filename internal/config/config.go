// Package config loads runtime settings from the environment, with an
// optional .env file for development setups. Command-line flags take
// precedence over everything here.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the daemon.
type Config struct {
	CameraID        int
	DebounceFrames  int
	CooldownSeconds int
	MotionThreshold float64
	HTTPAddr        string
	DBPath          string
}

// Cooldown returns the trigger cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// ResolveDBPath returns the configured database path, falling back to
// ~/.mudra/mudra.db when none is set.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".mudra", "mudra.db"), nil
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present; missing files are not
// an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CameraID:        getEnvInt("MUDRA_CAMERA_ID", 0),
		DebounceFrames:  getEnvInt("MUDRA_DEBOUNCE_FRAMES", 8),
		CooldownSeconds: getEnvInt("MUDRA_COOLDOWN_SECONDS", 4),
		MotionThreshold: getEnvFloat("MUDRA_MOTION_THRESHOLD", 1.0),
		HTTPAddr:        getEnv("MUDRA_HTTP_ADDR", ":8080"),
		DBPath:          getEnv("MUDRA_DB_PATH", ""),
	}
}

func getEnv(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if floatVal, err := strconv.ParseFloat(v, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
