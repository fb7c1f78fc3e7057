package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/zhubert/parley/internal/logger"
)

// Environment variables read by Parley.
const (
	EnvAPIURL = "PARLEY_API_URL"
	EnvHome   = "PARLEY_HOME"
	EnvSecret = "PARLEY_JWT_SECRET"
)

// LoadEnv loads a .env file from the working directory into the process
// environment. Variables already set are not overridden, and a missing file
// is not an error.
func LoadEnv() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return loadEnvFile(filepath.Join(cwd, ".env"))
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		logger.WithComponent("config").Warn("failed to load env file", "path", path, "error", err)
		return err
	}
	logger.WithComponent("config").Debug("loaded env file", "path", path)
	return nil
}

// GetEnv returns the value of key, or defaultVal when it is unset or empty.
func GetEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// ResolveAPIURL picks the backend URL. The flag wins, then the environment,
// then the config file, then DefaultAPIURL.
func ResolveAPIURL(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return trimSlash(flagValue)
	}
	if v := GetEnv(EnvAPIURL, ""); v != "" {
		return trimSlash(v)
	}
	if cfg != nil {
		if v := cfg.GetAPIURL(); v != "" {
			return v
		}
	}
	return DefaultAPIURL
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
