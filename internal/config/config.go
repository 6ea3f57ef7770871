// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP API listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health listener (e.g. :9090). Empty disables it.
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN. When empty the server runs on the in-memory store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// ServiceName is reported to OpenTelemetry and used as the otelgin server name.
	ServiceName string `mapstructure:"SERVICE_NAME"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim (e.g. "accounts-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "accounts-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// InviteTTLRaw is the lifetime of the signed invite reference sent by mail (e.g. "168h").
	InviteTTLRaw string `mapstructure:"INVITE_TTL"`
	// InviteBaseURL is the prefix of the invite link; the signed reference is appended.
	InviteBaseURL string `mapstructure:"INVITE_BASE_URL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// PasswordMinLength is the minimum accepted password length at sign-up and reset.
	PasswordMinLength int `mapstructure:"PASSWORD_MIN_LENGTH"`

	// MailDriver selects the notification transport: log, smtp or relay.
	MailDriver string `mapstructure:"MAIL_DRIVER"`
	// MailFrom is the sender address on outgoing notifications.
	MailFrom     string `mapstructure:"MAIL_FROM"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	// MailRelayURL is the HTTP endpoint of the mail relay used when MAIL_DRIVER=relay.
	MailRelayURL    string `mapstructure:"MAIL_RELAY_URL"`
	MailRelayAPIKey string `mapstructure:"MAIL_RELAY_API_KEY"`

	// RateLimitPerMinute bounds sign-in/sign-up requests per client IP. 0 disables the limiter.
	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty yields no-op providers.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext to the collector even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	// When set, membership events are published to EventsKafkaTopic.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsKafkaTopic is the Kafka topic for membership events.
	EventsKafkaTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the events worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// LokiURL is where the events worker pushes log lines (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("SERVICE_NAME", "tenant-accounts")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "accounts-auth")
	v.SetDefault("JWT_AUDIENCE", "accounts-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("INVITE_TTL", "168h")
	v.SetDefault("INVITE_BASE_URL", "http://localhost:3000/invite")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("PASSWORD_MIN_LENGTH", 8)
	v.SetDefault("MAIL_DRIVER", "log")
	v.SetDefault("MAIL_FROM", "noreply@example.com")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_RELAY_URL", "")
	v.SetDefault("MAIL_RELAY_API_KEY", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_KAFKA_TOPIC", "accounts-membership-events")
	v.SetDefault("KAFKA_GROUP_ID", "accounts-events-worker")
	v.SetDefault("LOKI_URL", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.PasswordMinLength < 1 {
		return nil, errors.New("config: PASSWORD_MIN_LENGTH must be positive")
	}

	switch cfg.MailDriver {
	case "log", "":
		cfg.MailDriver = "log"
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("config: SMTP_HOST must be set when MAIL_DRIVER=smtp")
		}
	case "relay":
		if cfg.MailRelayURL == "" {
			return nil, errors.New("config: MAIL_RELAY_URL must be set when MAIL_DRIVER=relay")
		}
	default:
		return nil, errors.New("config: MAIL_DRIVER must be one of log, smtp, relay")
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL must be set when APP_ENV=production")
	}

	return &cfg, nil
}

// IsDevelopment reports whether APP_ENV selects development defaults (console logging, ephemeral keys).
func (c *Config) IsDevelopment() bool {
	return c != nil && (c.Env == "development" || c.Env == "")
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// InviteTTL parses InviteTTLRaw as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) InviteTTL() time.Duration {
	d, err := time.ParseDuration(c.InviteTTLRaw)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if event publishing is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
