package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Recents
		Reactor
		Tasks
		Covers
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		APIKey            string
		BaseURL           string
		Timeout           time.Duration
		RequestsPerSecond float64
		Offline           bool // Serve the embedded catalog and in-memory stores
	}
	Recents struct {
		Limit         int
		MaxAge        time.Duration // Zero disables pruning
		PruneSchedule string        // Cron format: "0 3 * * *" = daily at 03:00
	}
	Reactor struct {
		Workers        int
		SearchDebounce time.Duration
	}
	Tasks struct {
		Enabled         bool
		RecordViews     bool // Write recent views through the queue instead of inline
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Covers struct {
		Enabled      bool
		Dir          string   // Empty: "covers" next to the database file
		AllowedHosts []string // Empty allows any host
	}
	Log struct {
		Level string
	}
)

// LoadEnvFiles loads variables from the given dotenv files. Missing files are
// skipped and variables already present in the environment win.
func LoadEnvFiles(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog defaults
	v.SetDefault("kakao_api_key", "")
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("catalog_rps", 5)
	v.SetDefault("bookshelf_offline", false)

	// Recent views defaults
	v.SetDefault("recents_limit", 10)
	v.SetDefault("recents_max_age", "720h")             // 30 days
	v.SetDefault("recents_prune_schedule", "0 3 * * *") // Daily at 03:00

	// Reactor defaults
	v.SetDefault("reactor_workers", 4)
	v.SetDefault("search_debounce", "300ms")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_record_views", false)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Cover cache defaults
	v.SetDefault("covers_enabled", true)
	v.SetDefault("covers_dir", "")
	v.SetDefault("covers_allowed_hosts", DefaultCoverHosts)

	v.SetDefault("log_level", "info")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			APIKey:            v.GetString("KAKAO_API_KEY"),
			BaseURL:           v.GetString("CATALOG_BASE_URL"),
			Timeout:           v.GetDuration("CATALOG_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("CATALOG_RPS"),
			Offline:           v.GetBool("BOOKSHELF_OFFLINE"),
		},
		Recents: Recents{
			Limit:         v.GetInt("RECENTS_LIMIT"),
			MaxAge:        v.GetDuration("RECENTS_MAX_AGE"),
			PruneSchedule: v.GetString("RECENTS_PRUNE_SCHEDULE"),
		},
		Reactor: Reactor{
			Workers:        v.GetInt("REACTOR_WORKERS"),
			SearchDebounce: v.GetDuration("SEARCH_DEBOUNCE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			RecordViews:     v.GetBool("TASK_RECORD_VIEWS"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Covers: Covers{
			Enabled:      v.GetBool("COVERS_ENABLED"),
			Dir:          v.GetString("COVERS_DIR"),
			AllowedHosts: splitList(v.GetString("COVERS_ALLOWED_HOSTS")),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
