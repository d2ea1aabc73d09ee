package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	LogLevel string `json:"log_level"`

	Classifier struct {
		InputPath  string `json:"input_path"`
		OutputPath string `json:"output_path"`
		BatchSize  int    `json:"batch_size"`
	} `json:"classifier"`

	Denylist struct {
		URL      string `json:"url"`
		Timeout  Timer  `json:"timeout"`
		Proxy    string `json:"proxy"`
		RedisURL string `json:"redis_url"`
		CacheTTL Timer  `json:"cache_ttl"`
	} `json:"denylist"`

	Merger struct {
		Sources     []string `json:"sources"`
		OutputPath  string   `json:"output_path"`
		ExportName  string   `json:"export_name"`
		DatabaseDSN string   `json:"database_dsn"`
	} `json:"merger"`

	Enrich struct {
		InputPath        string `json:"input_path"`
		OutputPath       string `json:"output_path"`
		ThreatTablePath  string `json:"threat_table_path"`
		GeoLiteCountryDB string `json:"geolite_country_db"`
	} `json:"enrich"`
}

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

const (
	defaultSettingsFilePath = "data/settings.json"
	settingsPathEnv         = "MAILSIFT_SETTINGS"
)

// Environment overrides applied on top of the settings file.
const (
	EnvLogLevel         = "MAILSIFT_LOG_LEVEL"
	EnvRedisURL         = "MAILSIFT_REDIS_URL"
	EnvDatabaseDSN      = "MAILSIFT_DATABASE_DSN"
	EnvGeoLiteCountryDB = "MAILSIFT_GEOLITE_COUNTRY_DB"
	EnvDenylistProxy    = "MAILSIFT_DENYLIST_PROXY"
)

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
)

func init() {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		cfg = Config{}
	}
	configValue.Store(cfg)
}

// SettingsFilePath returns the settings location, honouring MAILSIFT_SETTINGS.
func SettingsFilePath() string {
	if p := strings.TrimSpace(os.Getenv(settingsPathEnv)); p != "" {
		return p
	}
	return defaultSettingsFilePath
}

// ReadSettings loads the settings file, writing the embedded defaults first if
// it does not exist yet, applies environment overrides and stores the result.
func ReadSettings() (Config, error) {
	path := SettingsFilePath()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read settings %s: %w", path, err)
		}

		log.Warn("Settings file not found, creating with default configuration", "path", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Config{}, fmt.Errorf("create settings directory: %w", err)
		}
		if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
			return Config{}, fmt.Errorf("write default settings: %w", err)
		}
		data = defaultConfig
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)

	SetConfig(cfg)
	log.Debug("Settings file loaded successfully", "path", path)
	return cfg, nil
}

// Parse decodes a settings document on top of the embedded defaults, so keys
// missing from data keep their default values.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if len(defaultConfig) > 0 {
		if err := json.Unmarshal(defaultConfig, &cfg); err != nil {
			return Config{}, fmt.Errorf("default settings: %w", err)
		}
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Classifier.BatchSize <= 0 {
		cfg.Classifier.BatchSize = DefaultBatchSize
	}
	if strings.TrimSpace(cfg.Merger.ExportName) == "" {
		cfg.Merger.ExportName = DefaultExportName
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupEnv(EnvRedisURL); ok {
		cfg.Denylist.RedisURL = v
	}
	if v, ok := lookupEnv(EnvDatabaseDSN); ok {
		cfg.Merger.DatabaseDSN = v
	}
	if v, ok := lookupEnv(EnvGeoLiteCountryDB); ok {
		cfg.Enrich.GeoLiteCountryDB = v
	}
	if v, ok := lookupEnv(EnvDenylistProxy); ok {
		cfg.Denylist.Proxy = v
	}
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func SetConfig(cfg Config) {
	configValue.Store(cfg)
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

// Level maps the configured level name to a charmbracelet level, falling
// back to info for unknown names.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
