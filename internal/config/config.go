package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration, including the policy constants
// of the nutrition and recommendation computations.
type Config struct {
	// TargetReps is the per-set rep target for progressive overload
	TargetReps int `json:"target_reps"`

	// SmallIncrement is the weight increase (lbs) below HeavyThreshold
	SmallIncrement float64 `json:"small_increment"`

	// LargeIncrement is the weight increase (lbs) at or above HeavyThreshold
	LargeIncrement float64 `json:"large_increment"`

	// HeavyThreshold is the weight (lbs) at which the larger increment applies
	HeavyThreshold float64 `json:"heavy_threshold"`

	// RollingWindowDays is the maximum trailing window for rolling averages
	RollingWindowDays int `json:"rolling_window_days"`

	// CalorieTargetLow and CalorieTargetHigh bound the daily calorie target band
	CalorieTargetLow  float64 `json:"calorie_target_low"`
	CalorieTargetHigh float64 `json:"calorie_target_high"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// All tools are enabled by default. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TargetReps:        10,
		SmallIncrement:    5,
		LargeIncrement:    10,
		HeavyThreshold:    100,
		RollingWindowDays: 7,
		CalorieTargetLow:  1800,
		CalorieTargetHigh: 2200,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.vitalog.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.vitalog) and repo
// (.vitalog) directories. Repo config is found by walking upward from
// startDir to the nearest .vitalog/config.json, and takes precedence for
// scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .vitalog/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".vitalog", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.TargetReps = overlay.TargetReps
	if result.TargetReps == 0 {
		result.TargetReps = base.TargetReps
	}

	result.SmallIncrement = overlay.SmallIncrement
	if result.SmallIncrement == 0 {
		result.SmallIncrement = base.SmallIncrement
	}

	result.LargeIncrement = overlay.LargeIncrement
	if result.LargeIncrement == 0 {
		result.LargeIncrement = base.LargeIncrement
	}

	result.HeavyThreshold = overlay.HeavyThreshold
	if result.HeavyThreshold == 0 {
		result.HeavyThreshold = base.HeavyThreshold
	}

	result.RollingWindowDays = overlay.RollingWindowDays
	if result.RollingWindowDays == 0 {
		result.RollingWindowDays = base.RollingWindowDays
	}

	result.CalorieTargetLow = overlay.CalorieTargetLow
	if result.CalorieTargetLow == 0 {
		result.CalorieTargetLow = base.CalorieTargetLow
	}

	result.CalorieTargetHigh = overlay.CalorieTargetHigh
	if result.CalorieTargetHigh == 0 {
		result.CalorieTargetHigh = base.CalorieTargetHigh
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
