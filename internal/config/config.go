// Package config loads, validates and persists the arise configuration.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			Port: 18765,
			Bind: "loopback",
			Auth: GatewayAuth{
				Mode: "token",
			},
		},
		Model: ModelConfig{
			Provider:  "gemini",
			MaxTokens: 1024,
		},
		Session: SessionConfig{
			ID:    "default",
			Store: "sqlite",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleLevel: "info",
			ConsoleStyle: "pretty",
		},
	}
}
