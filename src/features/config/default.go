package config

import "time"

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	currentYear := time.Now().Year()
	return &Config{
		LibraryPath: "./music",
		Years:       []int{currentYear - 1, currentYear},
		Buckets: Buckets{
			OtherYears:   "other_years",
			Unidentified: "unidentified",
		},
		Backup: Backup{
			Enabled: true,
			Dir:     "backup",
		},
		Cache: Cache{
			Path:       "./chronotune_cache.json",
			FlushEvery: 50,
		},
		Database: Database{
			Path: "./chronotune.db",
		},
		Spotify: Spotify{
			Enabled:        true,
			ClientID:       "", // https://developer.spotify.com/dashboard
			ClientSecret:   "",
			TimeoutSeconds: 3,
			Retries:        1,
		},
		Tagging: Tagging{
			WriteYear: false,
		},
		Telegram: Telegram{
			Enabled: false,
			Token:   "", // Can be obtained with https://t.me/BotFather
			ChatID:  0,
		},
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			Enabled: false,
			Port:    3636,
		},
		Watch: Watch{
			DebounceSeconds: 5,
		},
	}
}
