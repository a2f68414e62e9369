// Package config loads the panel's runtime settings: a .env file if one is
// present, then PANELD_* environment overrides on top of the defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPollInterval    = 15 * time.Minute
	DefaultSchedulerBuffer = 64
	DefaultResultsBuffer   = 16
)

type Config struct {
	DBPath       string
	PollInterval time.Duration

	GitHubToken     string
	GitHubTokenFile string
	GitHubQuery     string

	GoogleCredentialsFile string
	GoogleTokenFile       string

	DesktopNotifications bool
	SchedulerBuffer      int
	ResultsBuffer        int
}

func Default() Config {
	home := configHome()
	return Config{
		DBPath:                filepath.Join(home, "paneld.db"),
		PollInterval:          DefaultPollInterval,
		GitHubTokenFile:       filepath.Join(home, "github_token"),
		GoogleCredentialsFile: filepath.Join(home, "credentials.json"),
		GoogleTokenFile:       filepath.Join(home, "token.json"),
		DesktopNotifications:  true,
		SchedulerBuffer:       DefaultSchedulerBuffer,
		ResultsBuffer:         DefaultResultsBuffer,
	}
}

// Load reads .env if present and applies environment overrides. A missing
// .env is not an error; a malformed one is ignored the same way since the
// panel can always run on defaults.
func Load() Config {
	if os.Getenv("PANELD_DOTENV_DISABLE") == "" {
		_ = godotenv.Load()
	}
	return FromEnv(Default())
}

func FromEnv(base Config) Config {
	cfg := base
	if v := getEnv("PANELD_DB_PATH", ""); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("PANELD_POLL_INTERVAL_MINUTES"); ok && v > 0 {
		cfg.PollInterval = time.Duration(v) * time.Minute
	}
	if v := getEnv("PANELD_GITHUB_TOKEN", ""); v != "" {
		cfg.GitHubToken = v
	}
	if v := getEnv("PANELD_GITHUB_TOKEN_FILE", ""); v != "" {
		cfg.GitHubTokenFile = v
	}
	if v := getEnv("PANELD_GITHUB_QUERY", ""); v != "" {
		cfg.GitHubQuery = v
	}
	if v := getEnv("PANELD_GOOGLE_CREDENTIALS_FILE", ""); v != "" {
		cfg.GoogleCredentialsFile = v
	}
	if v := getEnv("PANELD_GOOGLE_TOKEN_FILE", ""); v != "" {
		cfg.GoogleTokenFile = v
	}
	if v, ok := getEnvBool("PANELD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("PANELD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvInt("PANELD_RESULTS_BUFFER"); ok && v > 0 {
		cfg.ResultsBuffer = v
	}
	return cfg
}

func configHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "paneld")
}

func getEnv(name, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
