// Package config loads the storefront settings from the environment.
// A local .env file is honoured, then every key can be overridden by a
// real environment variable.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	SeedData    bool
	Seed        SeedConfig

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
	Razorpay RazorpayConfig
	Mail     MailConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN returns DATABASE_URL when set, otherwise a postgres keyword DSN built
// from the DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret           string
	TokenTTL            time.Duration
	AdminAPIKey         string
	FirebaseCredentials string
	FirebaseProjectID   string
}

type CheckoutConfig struct {
	ShippingFlat string
	TaxRate      string
	Currency     string
	CartTTL      time.Duration
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	APIURL        string
	Timeout       time.Duration
}

type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// Enabled reports whether SMTP credentials were supplied.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != ""
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// SeedConfig holds the bootstrap admin account created by SEED_DATA.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

type LogConfig struct {
	Level    string
	Format   string
	Output   string
	FilePath string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SEED_DATA", false)
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@fruitika.com")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "fruitika")

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_TTL", "24h")

	v.SetDefault("SHIPPING_FLAT", "15.99")
	v.SetDefault("TAX_RATE", "0.10")
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("CART_TTL", "72h")

	v.SetDefault("RAZORPAY_API_URL", "https://api.razorpay.com/v1")
	v.SetDefault("RAZORPAY_TIMEOUT", "10s")

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("KAFKA_ORDER_TOPIC", "storefront.orders")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE_PATH", "logs/storefront.log")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("APP_ENV"),
		SeedData:    v.GetBool("SEED_DATA"),
		Seed: SeedConfig{
			AdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:           v.GetString("JWT_SECRET"),
			TokenTTL:            v.GetDuration("JWT_TTL"),
			AdminAPIKey:         v.GetString("ADMIN_API_KEY"),
			FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS_JSON"),
			FirebaseProjectID:   v.GetString("FIREBASE_PROJECT_ID"),
		},
		Checkout: CheckoutConfig{
			ShippingFlat: v.GetString("SHIPPING_FLAT"),
			TaxRate:      v.GetString("TAX_RATE"),
			Currency:     strings.ToUpper(v.GetString("CURRENCY")),
			CartTTL:      v.GetDuration("CART_TTL"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         v.GetString("RAZORPAY_KEY_ID"),
			KeySecret:     v.GetString("RAZORPAY_KEY_SECRET"),
			WebhookSecret: v.GetString("RAZORPAY_WEBHOOK_SECRET"),
			APIURL:        v.GetString("RAZORPAY_API_URL"),
			Timeout:       v.GetDuration("RAZORPAY_TIMEOUT"),
		},
		Mail: MailConfig{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetInt("SMTP_PORT"),
			Username:   v.GetString("EMAIL_USER"),
			Password:   v.GetString("EMAIL_PASS"),
			From:       v.GetString("EMAIL_FROM"),
			AdminEmail: v.GetString("ADMIN_EMAIL"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetString("KAFKA_BROKERS")),
			OrderTopic: v.GetString("KAFKA_ORDER_TOPIC"),
		},
		Log: LogConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Format:   v.GetString("LOG_FORMAT"),
			Output:   v.GetString("LOG_OUTPUT"),
			FilePath: v.GetString("LOG_FILE_PATH"),
		},
	}

	// Sender and admin inbox fall back to the SMTP account.
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	if cfg.Mail.AdminEmail == "" {
		cfg.Mail.AdminEmail = cfg.Mail.Username
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.Checkout.CartTTL <= 0 {
		return fmt.Errorf("CART_TTL must be positive, got %s", c.Checkout.CartTTL)
	}
	if c.SeedData && c.Seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_PASSWORD must be set when SEED_DATA is enabled")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
