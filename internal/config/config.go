package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a PostgreSQL connection string or a SQLite file path.
	URL string `mapstructure:"url" validate:"required"`
}

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"required,oneof=gemini openai"`
	APIKey    string `mapstructure:"api_key" validate:"required"`
	ModelName string `mapstructure:"model_name" validate:"required"`
	// Endpoint is the chat-completions URL of an OpenAI-compatible server.
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Provider openai,omitempty,url"`
	// PromptDir optionally overrides the embedded prompt templates.
	PromptDir      string        `mapstructure:"prompt_dir"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}
