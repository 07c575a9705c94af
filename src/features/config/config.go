package config

// Config holds the application configuration.
type Config struct {
	LibraryPath string   `yaml:"libraryPath" validate:"required"`
	Years       []int    `yaml:"years" validate:"required,min=1,dive,min=1950,max=2030"`
	Buckets     Buckets  `yaml:"buckets"`
	Backup      Backup   `yaml:"backup"`
	Cache       Cache    `yaml:"cache"`
	Database    Database `yaml:"database"`
	Spotify     Spotify  `yaml:"spotify"`
	Tagging     Tagging  `yaml:"tagging"`
	Telegram    Telegram `yaml:"telegram"`
	Logger      Logger   `yaml:"logger"`
	Server      Server   `yaml:"server"`
	Watch       Watch    `yaml:"watch"`
}

// Buckets names the non-year destination directories under the library path.
type Buckets struct {
	OtherYears   string `yaml:"other_years"`
	Unidentified string `yaml:"unidentified"`
}

// Backup holds the configuration for pre-move backup copies.
type Backup struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Cache holds the configuration for the identification cache store.
type Cache struct {
	Path       string `yaml:"path" validate:"required"`
	FlushEvery int    `yaml:"flush_every"` // processed files between flushes
}

// Database holds the configuration for the run-history database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Spotify holds the configuration for the remote track-search capability.
type Spotify struct {
	Enabled        bool   `yaml:"enabled"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`
}

// Tagging holds the configuration for writing resolved years back into files.
type Tagging struct {
	WriteYear bool `yaml:"write_year"`
}

// Telegram holds the configuration for run-summary notifications.
type Telegram struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Server holds the configuration for the watch-mode status server.
type Server struct {
	Enabled bool   `yaml:"enabled"`
	Port    uint32 `yaml:"port"`
}

// Watch holds the configuration for watch mode.
type Watch struct {
	DebounceSeconds int `yaml:"debounce_seconds"`
}
