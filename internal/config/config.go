// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"3333"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogFormat selects the log handler: "json" for production, "text" for
	// coloured output during development.
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to restrict it.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// APIBaseURL prefixes the confirmation links sent by email.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3333"`

	// WebBaseURL is the frontend the confirmation routes redirect to.
	WebBaseURL string `env:"WEB_BASE_URL" envDefault:"http://localhost:3000"`

	// MigrateOnStart runs pending goose migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	SMTP SMTP `envPrefix:"SMTP_"`
	Mail Mail `envPrefix:"MAIL_"`
}

// SMTP configures outgoing mail. An empty Host disables delivery; messages
// are logged instead.
type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// Mail holds the sender identity and the locale of the email copy.
type Mail struct {
	FromName    string `env:"FROM_NAME" envDefault:"Equipe plann.er"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:"oi@plann.er"`
	Locale      string `env:"LOCALE" envDefault:"pt-BR"`
}

// Load reads configuration from the process environment.
// Returns an error naming any required variable that is missing.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from environ instead of the process
// environment. Variables absent from environ take their defaults.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// trimAll trims every entry and drops the empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
