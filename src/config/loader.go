package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Sources lists where configuration is read from, lowest precedence first.
type Sources struct {
	// Files are JSON config files; missing files are skipped.
	Files []string
	// DotEnv files are read with godotenv; real environment variables win.
	DotEnv []string
	// EnvPrefix selects the environment overrides, e.g. MEDASSIST_MODEL.
	EnvPrefix string
}

// DefaultSources returns the standard configuration locations.
func DefaultSources() Sources {
	return Sources{
		Files: []string{
			DefaultConfigPath(),
			filepath.Join(".medassist", "config.json"),
		},
		DotEnv:    []string{".env"},
		EnvPrefix: "MEDASSIST",
	}
}

// Loader handles loading and merging configurations from multiple sources
type Loader struct {
	sources   Sources
	validator *Validator
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(sources Sources) *Loader {
	return &Loader{
		sources:   sources,
		validator: NewValidator(),
		lookupEnv: os.LookupEnv,
	}
}

// Load builds the configuration from defaults, files and the environment,
// then validates it.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	for _, path := range l.sources.Files {
		if path == "" {
			continue
		}
		if err := l.mergeFile(config, path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	env, err := l.environment()
	if err != nil {
		return nil, err
	}
	if err := applyEnvironmentOverrides(config, l.sources.EnvPrefix, env); err != nil {
		return nil, err
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// mergeFile decodes a JSON file over config; fields absent from the file keep
// their current values.
func (l *Loader) mergeFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// environment merges .env files under the process environment.
func (l *Loader) environment() (func(string) (string, bool), error) {
	dotenv := map[string]string{}
	for _, path := range l.sources.DotEnv {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range values {
			dotenv[k] = v
		}
	}

	return func(key string) (string, bool) {
		if v, ok := l.lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// SaveFile writes config as indented JSON, validating it first.
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func applyEnvironmentOverrides(config *Config, prefix string, env func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		if prefix == "" {
			return "", false
		}
		v, ok := env(prefix + "_" + name)
		return v, ok && v != ""
	}

	if v, ok := get("API_KEY"); ok {
		config.API.APIKey = v
	}
	if v, ok := get("PROVIDER"); ok {
		config.API.Provider = v
	}
	if v, ok := get("BASE_URL"); ok {
		config.API.BaseURL = v
	}
	if v, ok := get("MODEL"); ok {
		config.Model.ID = v
	}
	if v, ok := get("ADDR"); ok {
		config.Server.Addr = v
	}
	if v, ok := get("SNAPSHOT_DIR"); ok {
		config.Snapshot.Directory = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		config.Observability.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		config.Observability.Logging.Format = v
	}

	if v, ok := get("TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s_TEMPERATURE: %w", prefix, err)
		}
		config.Model.Temperature = f
	}

	ints := []struct {
		name   string
		target *int
	}{
		{"MAX_TOKENS", &config.Model.MaxTokens},
		{"MAX_TURNS", &config.Session.MaxTurns},
		{"RETRY_ATTEMPTS", &config.Retry.MaxAttempts},
	}
	for _, it := range ints {
		if v, ok := get(it.name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s_%s: %w", prefix, it.name, err)
			}
			*it.target = n
		}
	}

	durations := []struct {
		name   string
		target *Duration
	}{
		{"SESSION_TTL", &config.Session.IdleTTL},
		{"RETRY_DELAY", &config.Retry.BaseDelay},
		{"TIMEOUT", &config.API.Timeout},
	}
	for _, dt := range durations {
		if v, ok := get(dt.name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s_%s: %w", prefix, dt.name, err)
			}
			*dt.target = Duration(d)
		}
	}

	// Fall back to the provider's conventional variable for the key
	if config.API.APIKey == "" && config.API.APIKeyEnvVar != "" {
		if v, ok := env(config.API.APIKeyEnvVar); ok {
			config.API.APIKey = v
		}
	}

	return nil
}
