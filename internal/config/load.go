package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SMARTTODO_LLM_API_KEY.
const EnvPrefix = "SMARTTODO"

var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"server.cors_allowed_origins": []string{"http://localhost:3000"},
	"server.shutdown_timeout":     10 * time.Second,
	"database.driver":             DriverPostgres,
	"database.url":                "",
	"llm.provider":                ProviderGemini,
	"llm.api_key":                 "",
	"llm.model_name":              "gemini-2.5-flash",
	"llm.endpoint":                "",
	"llm.prompt_dir":              "",
	"llm.request_timeout":         30 * time.Second,
}

// Load reads configuration from defaults, an optional config file and
// environment variables, in increasing order of precedence. When configFile
// is empty a config.yaml in the working directory is used if present.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
