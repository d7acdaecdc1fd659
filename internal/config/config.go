package config

// Config holds all application configuration, loaded once at process start
// by Load. It organizes settings into logical groups for better
// maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	CORS     CORSConfig     `mapstructure:"cors" validate:"required"`
	App      AppConfig      `mapstructure:"app" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// CORSConfig controls which origins the API façade accepts cross-origin
// requests from.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// AppConfig holds the tunables that back §4.3's import batch size, §5's
// import concurrency limit, and the queue defaults. DefaultQueueLimit and
// DefaultNewLimit are loaded and validated but not passed to the scheduler,
// which applies its own built-in defaults (30 and 10).
type AppConfig struct {
	ImportBatchSize   int `mapstructure:"import_batch_size" validate:"required,gt=0"`
	ImportWorkerLimit int `mapstructure:"import_worker_limit" validate:"required,gt=0"`
	DefaultQueueLimit int `mapstructure:"default_queue_limit" validate:"required,gt=0"`
	DefaultNewLimit   int `mapstructure:"default_new_limit" validate:"required,gt=0"`
	MaxRowErrors      int `mapstructure:"max_row_errors" validate:"required,gt=0"`
}
