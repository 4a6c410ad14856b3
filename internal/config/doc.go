// Package config loads and validates application settings from defaults, an
// optional YAML file and SMARTTODO_-prefixed environment variables.
package config
