package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	InputDir    string
	OutputDir   string
	DeliveryDir string
	LogLevel    string

	RequestUserColumn string
	RequestNoteColumn string
	PolicyFile        string

	GoogleCredentialsFile string
	SheetsRateLimitRPS    int
	SheetsTimeoutMs       int
	LabelSheetID          string
	LabelHeaderRow        int
	LabelLogoPath         string
	LabelBanner           string
	LabelLibrary          string
	LabelTimezone         string

	WatchIntervalSec int
	WatchDeliver     bool
	WatchSQLitePath  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		InputDir:    getEnv("INPUT_DIR", filepath.Join(cwd, "data", "solicitudes")),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		DeliveryDir: getEnv("DELIVERY_DIR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		RequestUserColumn: getEnv("REQUEST_USER_COLUMN", "Usuario / Solicitante"),
		RequestNoteColumn: getEnv("REQUEST_NOTE_COLUMN", "Observación"),
		PolicyFile:        getEnv("POLICY_FILE", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		SheetsRateLimitRPS:    getEnvInt("SHEETS_RATE_LIMIT_RPS", 1),
		SheetsTimeoutMs:       getEnvInt("SHEETS_TIMEOUT_MS", 15000),
		LabelSheetID:          getEnv("LABEL_SHEET_ID", ""),
		LabelHeaderRow:        getEnvInt("LABEL_HEADER_ROW", 2),
		LabelLogoPath:         getEnv("LABEL_LOGO_PATH", ""),
		LabelBanner:           getEnv("LABEL_BANNER", ""),
		LabelLibrary:          getEnv("LABEL_LIBRARY", ""),
		LabelTimezone:         getEnv("LABEL_TIMEZONE", "America/Bogota"),

		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 60),
		WatchDeliver:     getEnvBool("WATCH_DELIVER", false),
		WatchSQLitePath:  getEnv("WATCH_SQLITE_PATH", ""),
	}

	if cfg.LabelHeaderRow < 1 {
		return Config{}, fmt.Errorf("LABEL_HEADER_ROW must be >= 1, got %d", cfg.LabelHeaderRow)
	}
	if cfg.WatchIntervalSec < 1 {
		return Config{}, fmt.Errorf("WATCH_INTERVAL_SEC must be >= 1, got %d", cfg.WatchIntervalSec)
	}
	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// ResolveInput interprets a bare file name relative to InputDir.
func (c Config) ResolveInput(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(c.InputDir, name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
