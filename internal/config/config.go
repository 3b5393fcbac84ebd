package config

import (
	"errors"
	"os"
	"strconv"
)

// app config: engine provider, profile file locations and the
// optimizer/cache tuning knobs
type Config struct {
	Provider string

	ProfilesPath string
	BackupDir    string

	CacheTTLDays int

	OptimizeEnabled     bool
	OptimizeSchedule    string // cron expression
	OptimizeMaxChange   int
	OptimizeMinFeedback int
	FeedbackWindowDays  int
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:            getEnvOrDefault("ENGINE_PROVIDER", "ollama"),
		ProfilesPath:        getEnvOrDefault("ENGINE_PROFILES_PATH", "config/engine_profiles.yaml"),
		BackupDir:           getEnvOrDefault("ENGINE_PROFILES_BACKUP_DIR", "config/backups"),
		CacheTTLDays:        getEnvIntOrDefault("CACHE_TTL_DAYS", 7),
		OptimizeEnabled:     getEnvOrDefault("AUTO_OPTIMIZE_ENABLED", "true") == "true",
		OptimizeSchedule:    getEnvOrDefault("AUTO_OPTIMIZE_SCHEDULE", "0 3 * * *"),
		OptimizeMaxChange:   getEnvIntOrDefault("AUTO_OPTIMIZE_MAX_CHANGE", 20),
		OptimizeMinFeedback: getEnvIntOrDefault("AUTO_OPTIMIZE_MIN_FEEDBACK", 5),
		FeedbackWindowDays:  getEnvIntOrDefault("FEEDBACK_WINDOW_DAYS", 7),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "ollama" && config.Provider != "gemini" {
		return errors.New("unsupported engine provider: " + config.Provider + ". Currently supported: ollama, gemini")
	}
	if config.CacheTTLDays <= 0 {
		return errors.New("CACHE_TTL_DAYS must be positive")
	}
	if config.FeedbackWindowDays <= 0 {
		return errors.New("FEEDBACK_WINDOW_DAYS must be positive")
	}
	if config.OptimizeMaxChange <= 0 {
		return errors.New("AUTO_OPTIMIZE_MAX_CHANGE must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
