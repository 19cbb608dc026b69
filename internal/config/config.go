// Package config loads the pipeline's configuration from a YAML file
// with environment-variable overrides, adapted from
// services/distribution_service/main.go's loadConfig().
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every option spec.md §6's configuration table names.
type Config struct {
	ModelPath           string        `yaml:"model_path"`
	InternalDataBackend string        `yaml:"internal_data_backend"` // "csv" or "postgres"
	InternalDataPath    string        `yaml:"internal_data_path"`
	CacheTTL            time.Duration `yaml:"cache_ttl_seconds"`
	MaxListings         int           `yaml:"max_listings"`
	MaxInternalMatches  int           `yaml:"max_internal_matches"`
	ScrapeTimeout       time.Duration `yaml:"scrape_timeout_ms"`
	ScrapeDelayMin      time.Duration `yaml:"scrape_delay_ms_min"`
	ScrapeDelayMax      time.Duration `yaml:"scrape_delay_ms_max"`
	Headless            bool          `yaml:"headless"`

	RedisAddr string `yaml:"redis_addr"`

	SearchURLTemplate string `yaml:"search_url_template"`
	ListSelector      string `yaml:"list_selector"`

	HTTPPort int `yaml:"http_port"`

	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	Environment string `yaml:"environment"`
}

// rawConfig mirrors the YAML shape for the numeric fields spec.md
// §6 documents as milliseconds/seconds rather than Go durations.
type rawConfig struct {
	ModelPath           string `yaml:"model_path"`
	InternalDataBackend string `yaml:"internal_data_backend"`
	InternalDataPath    string `yaml:"internal_data_path"`
	CacheTTL            int    `yaml:"cache_ttl_seconds"`
	MaxListings         int    `yaml:"max_listings"`
	MaxInternalMatches  int    `yaml:"max_internal_matches"`
	ScrapeTimeoutMS     int    `yaml:"scrape_timeout_ms"`
	ScrapeDelayMinMS    int    `yaml:"scrape_delay_ms_min"`
	ScrapeDelayMaxMS    int    `yaml:"scrape_delay_ms_max"`
	Headless            *bool  `yaml:"headless"`
	RedisAddr           string `yaml:"redis_addr"`
	SearchURLTemplate   string `yaml:"search_url_template"`
	ListSelector        string `yaml:"list_selector"`
	HTTPPort            int    `yaml:"http_port"`
	LogLevel            string `yaml:"log_level"`
	LogFormat           string `yaml:"log_format"`
	Environment         string `yaml:"environment"`
}

// defaults implements spec.md §6's documented defaults.
func defaults() rawConfig {
	headless := true
	return rawConfig{
		CacheTTL:          3600,
		MaxListings:       30,
		MaxInternalMatches: 50,
		ScrapeTimeoutMS:   30000,
		ScrapeDelayMinMS:  2000,
		ScrapeDelayMaxMS:  4000,
		Headless:          &headless,
		RedisAddr:         "localhost:6379",
		HTTPPort:          8080,
		LogLevel:          "info",
		LogFormat:         "json",
		Environment:       "development",
		InternalDataBackend: "csv",
	}
}

// Load reads configFile (YAML), applies environment-variable
// overrides per spec.md §6, and returns the resolved Config.
func Load(configFile string) (*Config, error) {
	raw := defaults()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&raw)

	if raw.ModelPath == "" {
		return nil, fmt.Errorf("MODEL_PATH is required")
	}
	if raw.InternalDataPath == "" {
		return nil, fmt.Errorf("INTERNAL_DATA_PATH is required")
	}

	return &Config{
		ModelPath:           raw.ModelPath,
		InternalDataBackend: raw.InternalDataBackend,
		InternalDataPath:    raw.InternalDataPath,
		CacheTTL:            time.Duration(raw.CacheTTL) * time.Second,
		MaxListings:         raw.MaxListings,
		MaxInternalMatches:  raw.MaxInternalMatches,
		ScrapeTimeout:       time.Duration(raw.ScrapeTimeoutMS) * time.Millisecond,
		ScrapeDelayMin:      time.Duration(raw.ScrapeDelayMinMS) * time.Millisecond,
		ScrapeDelayMax:      time.Duration(raw.ScrapeDelayMaxMS) * time.Millisecond,
		Headless:            *raw.Headless,
		RedisAddr:           raw.RedisAddr,
		SearchURLTemplate:   raw.SearchURLTemplate,
		ListSelector:        raw.ListSelector,
		HTTPPort:            raw.HTTPPort,
		LogLevel:            raw.LogLevel,
		LogFormat:           raw.LogFormat,
		Environment:         raw.Environment,
	}, nil
}

func applyEnvOverrides(raw *rawConfig) {
	if v := os.Getenv("MODEL_PATH"); v != "" {
		raw.ModelPath = v
	}
	if v := os.Getenv("INTERNAL_DATA_PATH"); v != "" {
		raw.InternalDataPath = v
	}
	if v := os.Getenv("INTERNAL_DATA_BACKEND"); v != "" {
		raw.InternalDataBackend = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			raw.CacheTTL = n
		}
	}
	if v := os.Getenv("MAX_LISTINGS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			raw.MaxListings = n
		}
	}
	if v := os.Getenv("MAX_INTERNAL_MATCHES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			raw.MaxInternalMatches = n
		}
	}
	if v := os.Getenv("SCRAPE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			raw.ScrapeTimeoutMS = n
		}
	}
	if v := os.Getenv("SCRAPE_DELAY_MS_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			raw.ScrapeDelayMinMS = n
		}
	}
	if v := os.Getenv("SCRAPE_DELAY_MS_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			raw.ScrapeDelayMaxMS = n
		}
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			raw.Headless = &b
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		raw.RedisAddr = v
	}
}
