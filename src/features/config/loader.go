package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new config Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		applyEnvOverrides(defaultCfg)

		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		return NewManager(defaultCfg), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return NewManager(&cfg), nil
}

// applyDefaults fills in zero-valued optional fields after decoding.
func applyDefaults(cfg *Config) {
	def := createDefaultConfig()
	if len(cfg.Years) == 0 {
		cfg.Years = def.Years
	}
	if cfg.Buckets.OtherYears == "" {
		cfg.Buckets.OtherYears = def.Buckets.OtherYears
	}
	if cfg.Buckets.Unidentified == "" {
		cfg.Buckets.Unidentified = def.Buckets.Unidentified
	}
	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = def.Backup.Dir
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = def.Cache.Path
	}
	if cfg.Cache.FlushEvery <= 0 {
		cfg.Cache.FlushEvery = def.Cache.FlushEvery
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.Spotify.TimeoutSeconds <= 0 {
		cfg.Spotify.TimeoutSeconds = def.Spotify.TimeoutSeconds
	}
	if cfg.Spotify.Retries < 0 {
		cfg.Spotify.Retries = def.Spotify.Retries
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = def.Logger.Level
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = def.Logger.Format
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Watch.DebounceSeconds <= 0 {
		cfg.Watch.DebounceSeconds = def.Watch.DebounceSeconds
	}
}

// applyEnvOverrides overrides secrets with environment variables if set.
func applyEnvOverrides(cfg *Config) {
	if id := os.Getenv("SPOTIFY_CLIENT_ID"); id != "" {
		cfg.Spotify.ClientID = id
	}
	if secret := os.Getenv("SPOTIFY_CLIENT_SECRET"); secret != "" {
		cfg.Spotify.ClientSecret = secret
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
}

// saveDefaultConfig writes the default configuration to disk.
func saveDefaultConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	return encoder.Encode(cfg)
}
