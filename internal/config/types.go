package config

// Config is the root configuration for arise.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway,omitempty"`
	Model   ModelConfig   `yaml:"model,omitempty"`
	Actions ActionsConfig `yaml:"actions,omitempty"`
	Session SessionConfig `yaml:"session,omitempty"`
	Speech  SpeechConfig  `yaml:"speech,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// GatewayConfig controls the gateway HTTP/WebSocket server.
type GatewayConfig struct {
	Port           int         `yaml:"port,omitempty"`
	Bind           string      `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string      `yaml:"customBindHost,omitempty"`
	Auth           GatewayAuth `yaml:"auth,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Mode     string `yaml:"mode,omitempty"` // "token" | "password"
	Token    string `yaml:"token,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// ModelConfig selects and tunes the model backend.
type ModelConfig struct {
	Provider    string   `yaml:"provider,omitempty"` // "gemini"
	APIKey      string   `yaml:"apiKey,omitempty"`
	Models      []string `yaml:"models,omitempty"` // fallback chain, first is preferred
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ActionsConfig holds per-capability credentials. All are optional;
// capabilities degrade (simulated search/email, unauthenticated GitHub)
// or report a configuration error (weather) when unset.
type ActionsConfig struct {
	GitHubToken    string      `yaml:"githubToken,omitempty"`
	OpenWeatherKey string      `yaml:"openWeatherKey,omitempty"`
	SearchKey      string      `yaml:"searchKey,omitempty"`
	Gmail          GmailConfig `yaml:"gmail,omitempty"`
}

// GmailConfig points at OAuth material for real email delivery. Both
// paths must be set to enable the Gmail transport.
type GmailConfig struct {
	CredentialsPath string `yaml:"credentialsPath,omitempty"`
	TokenPath       string `yaml:"tokenPath,omitempty"`
}

// SessionConfig defines conversation persistence.
type SessionConfig struct {
	ID    string `yaml:"id,omitempty"`    // fixed session key, default "default"
	Store string `yaml:"store,omitempty"` // "sqlite" | "memory"
}

// SpeechConfig toggles voice output of assistant replies.
type SpeechConfig struct {
	Enabled bool    `yaml:"enabled,omitempty"`
	Rate    float64 `yaml:"rate,omitempty"`
	Volume  float64 `yaml:"volume,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleLevel string `yaml:"consoleLevel,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}
