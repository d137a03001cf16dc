package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Env     string `yaml:"env"`
}

type VerificationConfig struct {
	CodeLength  int    `yaml:"code_length"`
	TTL         string `yaml:"ttl"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type GatewayConfig struct {
	BaseURL string `yaml:"base_url"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type MessagingConfig struct {
	Provider string        `yaml:"provider"` // gateway | twilio
	Gateway  GatewayConfig `yaml:"gateway"`
	Twilio   TwilioConfig  `yaml:"twilio"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type OrdersConfig struct {
	Source   string         `yaml:"source"` // gateway | database
	Gateway  GatewayConfig  `yaml:"gateway"`
	Database DatabaseConfig `yaml:"database"`
}

type SessionsConfig struct {
	Store string `yaml:"store"` // memory | redis
	TTL   string `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TokenConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type SignatureConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Verification VerificationConfig `yaml:"verification"`
	Messaging    MessagingConfig    `yaml:"messaging"`
	Orders       OrdersConfig       `yaml:"orders"`
	Sessions     SessionsConfig     `yaml:"sessions"`
	Redis        RedisConfig        `yaml:"redis"`
	Token        TokenConfig        `yaml:"token"`
	Signature    SignatureConfig    `yaml:"signature"`
}

type Config struct {
	Port              string
	GinMode           string
	Env               string
	CodeLength        int
	CodeTTL           time.Duration
	MaxAttempts       int
	MessagingProvider string
	MessagingBaseURL  string
	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
	OrdersSource      string
	OrdersBaseURL     string
	DSN               string
	SessionStore      string
	SessionTTL        time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	TokenSecret       string
	TokenIssuer       string
	TokenTTL          time.Duration
	SignatureWidth    int
	SignatureHeight   int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the yaml config file, applying environment overrides for
// secrets so they never have to live on disk.
func Load() (*Config, error) {
	return LoadFile(env("AXEWEB_CONFIG", "config/config.yml"))
}

// LoadFile reads and validates the config at the given path.
func LoadFile(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	codeTTL, err := time.ParseDuration(defaultStr(configFile.Verification.TTL, "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid verification TTL: %w", err)
	}

	sessionTTL, err := time.ParseDuration(defaultStr(configFile.Sessions.TTL, "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	tokenTTL, err := time.ParseDuration(defaultStr(configFile.Token.TTL, "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid token TTL: %w", err)
	}

	cfg := &Config{
		Port:              fmt.Sprintf("%d", defaultInt(configFile.App.Port, 8080)),
		GinMode:           configFile.App.GinMode,
		Env:               defaultStr(configFile.App.Env, "development"),
		CodeLength:        defaultInt(configFile.Verification.CodeLength, 7),
		CodeTTL:           codeTTL,
		MaxAttempts:       defaultInt(configFile.Verification.MaxAttempts, 3),
		MessagingProvider: defaultStr(configFile.Messaging.Provider, "gateway"),
		MessagingBaseURL:  configFile.Messaging.Gateway.BaseURL,
		TwilioSID:         env("TWILIO_ACCOUNT_SID", configFile.Messaging.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_AUTH_TOKEN", configFile.Messaging.Twilio.AuthToken),
		TwilioFrom:        env("TWILIO_FROM_NUMBER", configFile.Messaging.Twilio.FromNumber),
		OrdersSource:      defaultStr(configFile.Orders.Source, "gateway"),
		OrdersBaseURL:     configFile.Orders.Gateway.BaseURL,
		DSN:               env("AXEWEB_DB_DSN", configFile.Orders.Database.DSN),
		SessionStore:      defaultStr(configFile.Sessions.Store, "memory"),
		SessionTTL:        sessionTTL,
		RedisAddr:         configFile.Redis.Addr,
		RedisPassword:     env("AXEWEB_REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:           configFile.Redis.DB,
		TokenSecret:       env("AXEWEB_TOKEN_SECRET", configFile.Token.Secret),
		TokenIssuer:       defaultStr(configFile.Token.Issuer, "axeweb"),
		TokenTTL:          tokenTTL,
		SignatureWidth:    defaultInt(configFile.Signature.Width, 350),
		SignatureHeight:   defaultInt(configFile.Signature.Height, 200),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MessagingProvider {
	case "gateway":
		if c.MessagingBaseURL == "" {
			return fmt.Errorf("messaging.gateway.base_url is required for the gateway provider")
		}
	case "twilio":
	default:
		return fmt.Errorf("unknown messaging provider %q", c.MessagingProvider)
	}

	switch c.OrdersSource {
	case "gateway":
		if c.OrdersBaseURL == "" {
			return fmt.Errorf("orders.gateway.base_url is required for the gateway source")
		}
	case "database":
		if c.DSN == "" {
			return fmt.Errorf("orders.database.dsn is required for the database source")
		}
	default:
		return fmt.Errorf("unknown orders source %q", c.OrdersSource)
	}

	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("redis.addr is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}

	if c.TokenSecret == "" {
		return fmt.Errorf("token.secret is required")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
