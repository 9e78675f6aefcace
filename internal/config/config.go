// Package config provides configuration loading, merging, and validation for
// the obituary search pipeline and its CLI/HTTP surfaces.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/scoring"
)

// Known provider identifiers accepted in the Providers list.
const (
	ProviderGoogle = "google"
	ProviderBing   = "bing"
	ProviderLegacy = "legacy"
)

// Config carries every tunable of the search pipeline. All fields are
// optional in the JSON file; gaps are filled from the environment and then
// from defaults.
type Config struct {
	// Search behavior
	AgeWindowYears int             `json:"age_window_years,omitempty"` // Age-match tolerance in years
	MaxResults     int             `json:"max_results,omitempty"`      // Output truncation limit
	Weights        scoring.Weights `json:"weights,omitempty"`          // Per-criterion scoring weights

	// Provider selection and credentials
	Providers     []string `json:"providers,omitempty"`       // Enabled backend identifiers
	GoogleAPIKey  string   `json:"google_api_key,omitempty"`  // Google Custom Search API key
	GoogleCSEID   string   `json:"google_cse_id,omitempty"`   // Google Custom Search engine ID
	BingAPIKey    string   `json:"bing_api_key,omitempty"`    // Bing Web Search subscription key
	LegacyBaseURL string   `json:"legacy_base_url,omitempty"` // Base URL of the native obituary site
	UseBrowser    bool     `json:"use_browser,omitempty"`     // Render native pages with a headless browser
	SampleDir     string   `json:"sample_dir,omitempty"`      // Override directory for offline sample hits

	// Surfaces
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// DefaultConfig returns the built-in defaults: every provider enabled, a six
// year age window, and twenty results.
func DefaultConfig() Config {
	return Config{
		AgeWindowYears: 6,
		MaxResults:     20,
		Weights:        scoring.DefaultWeights(),
		Providers:      []string{ProviderGoogle, ProviderBing, ProviderLegacy},
		Port:           8080,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables leave
// their fields at zero values so later merging can fill them.
func FromEnv() Config {
	cfg := Config{
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:   os.Getenv("GOOGLE_CSE_ID"),
		BingAPIKey:    os.Getenv("BING_API_KEY"),
		LegacyBaseURL: os.Getenv("LEGACY_BASE_URL"),
		SampleDir:     os.Getenv("DEATHWATCH_SAMPLE_DIR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		UseBrowser:    os.Getenv("DEATHWATCH_USE_BROWSER") == "true",
	}
	if providers := os.Getenv("DEATHWATCH_PROVIDERS"); providers != "" {
		for _, p := range strings.Split(providers, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				cfg.Providers = append(cfg.Providers, p)
			}
		}
	}
	cfg.AgeWindowYears = envInt("DEATHWATCH_AGE_WINDOW", 0)
	cfg.MaxResults = envInt("DEATHWATCH_MAX_RESULTS", 0)
	cfg.Port = envInt("PORT", 0)
	return cfg
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Bool fields cannot distinguish unset from false and never merge;
// explicit flags always win for those.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.AgeWindowYears == 0 {
		result.AgeWindowYears = defaults.AgeWindowYears
	}
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}
	if result.Weights == (scoring.Weights{}) {
		result.Weights = defaults.Weights
	}
	if len(result.Providers) == 0 {
		result.Providers = defaults.Providers
	}
	if result.GoogleAPIKey == "" {
		result.GoogleAPIKey = defaults.GoogleAPIKey
	}
	if result.GoogleCSEID == "" {
		result.GoogleCSEID = defaults.GoogleCSEID
	}
	if result.BingAPIKey == "" {
		result.BingAPIKey = defaults.BingAPIKey
	}
	if result.LegacyBaseURL == "" {
		result.LegacyBaseURL = defaults.LegacyBaseURL
	}
	if result.SampleDir == "" {
		result.SampleDir = defaults.SampleDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.AgeWindowYears < 0 {
		return fmt.Errorf("config error: 'age_window_years' must be non-negative")
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("config error: 'max_results' must be at least 1")
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("config error: at least one provider must be enabled")
	}
	for _, p := range c.Providers {
		switch p {
		case ProviderGoogle, ProviderBing, ProviderLegacy:
		default:
			return fmt.Errorf("config error: unknown provider %q", p)
		}
	}
	if c.SampleDir != "" {
		if _, err := os.Stat(c.SampleDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: sample directory not found: %s", c.SampleDir)
		}
	}
	return nil
}

// Load assembles the effective configuration: the JSON file when path is
// non-empty, the environment for its gaps, built-in defaults for the rest.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = cfg.MergeWithDefaults(DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
