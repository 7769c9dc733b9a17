package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		// Pull in a .env file first so viper's env binding sees it
		_ = godotenv.Load()

		setDefaults()

		viper.SetEnvPrefix("PODBRIEF")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine, defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		return fmt.Errorf("database path must not be empty")
	}

	// Auto-correct invalid worker count
	if viper.GetInt("processing.workers") <= 0 {
		viper.Set("processing.workers", 2)
	}

	if viper.GetInt("summaries.chunk_size") <= 0 {
		viper.Set("summaries.chunk_size", 8000)
	}

	if viper.GetString("summaries.api_key") == "" {
		fmt.Println("Warning: summaries.api_key is not set; summarization will fail")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	if c.Processing.Workers <= 0 {
		c.Processing.Workers = 2
	}

	if c.Summaries.ChunkSize <= 0 {
		c.Summaries.ChunkSize = 8000
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/podbrief.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.data_dir", "./data")
	viper.SetDefault("storage.downloads_dir", "./data/downloads")
	viper.SetDefault("storage.transcripts_dir", "./data/transcripts")
	viper.SetDefault("storage.summaries_dir", "./data/summaries")
	viper.SetDefault("storage.models_dir", "./data/models")

	// Feed defaults
	viper.SetDefault("feeds.timeout", 30*time.Second)
	viper.SetDefault("feeds.latest_only", true)
	viper.SetDefault("feeds.user_agent", "PodbriefAPI/1.0")

	// Download defaults
	viper.SetDefault("download.timeout", 5*time.Minute)
	viper.SetDefault("download.max_size", 500*1024*1024)
	viper.SetDefault("download.retry_attempts", 3)
	viper.SetDefault("download.user_agent", "PodbriefAPI/1.0")

	// Whisper defaults
	viper.SetDefault("whisper.binary_path", "whisper-cli")
	viper.SetDefault("whisper.model", "base")
	viper.SetDefault("whisper.language", "en")
	viper.SetDefault("whisper.timeout", 30*time.Minute)
	viper.SetDefault("whisper.hub_base_url", "https://huggingface.co/ggerganov/whisper.cpp/resolve/main")

	// Summaries defaults
	viper.SetDefault("summaries.model", "gpt-4o-mini")
	viper.SetDefault("summaries.temperature", 0.5)
	viper.SetDefault("summaries.timeout", 5*time.Minute)
	viper.SetDefault("summaries.templates", []string{
		"key_ideas", "concepts", "quotes", "actionable_items", "experimental",
	})
	viper.SetDefault("summaries.require_all", false)
	viper.SetDefault("summaries.chunk_size", 8000)

	// Processing defaults
	viper.SetDefault("processing.workers", 2)
	viper.SetDefault("processing.poll_interval", 2*time.Second)
	viper.SetDefault("processing.stage_timeout", 30*time.Minute)
	viper.SetDefault("processing.retry_attempts", 3)
}
