package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Feeds      FeedsConfig      `mapstructure:"feeds"`
	Download   DownloadConfig   `mapstructure:"download"`
	Whisper    WhisperConfig    `mapstructure:"whisper"`
	Summaries  SummariesConfig  `mapstructure:"summaries"`
	Processing ProcessingConfig `mapstructure:"processing"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains on-disk artifact layout settings
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir"`
	DownloadsDir   string `mapstructure:"downloads_dir"`
	TranscriptsDir string `mapstructure:"transcripts_dir"`
	SummariesDir   string `mapstructure:"summaries_dir"`
	ModelsDir      string `mapstructure:"models_dir"`
}

// FeedsConfig contains feed resolution settings
type FeedsConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	LatestOnly bool          `mapstructure:"latest_only"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// DownloadConfig contains audio download settings
type DownloadConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxSize       int64         `mapstructure:"max_size"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// WhisperConfig contains speech-to-text engine settings
type WhisperConfig struct {
	BinaryPath string        `mapstructure:"binary_path"`
	Model      string        `mapstructure:"model"`
	Language   string        `mapstructure:"language"`
	Timeout    time.Duration `mapstructure:"timeout"`
	HubBaseURL string        `mapstructure:"hub_base_url"`
}

// SummariesConfig contains summarization settings
type SummariesConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Templates   []string      `mapstructure:"templates"`
	RequireAll  bool          `mapstructure:"require_all"`
	ChunkSize   int           `mapstructure:"chunk_size"`
}

// ProcessingConfig contains pipeline and worker settings
type ProcessingConfig struct {
	Workers       int           `mapstructure:"workers"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	StageTimeout  time.Duration `mapstructure:"stage_timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
}
