package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort    = "8080"
	defaultGRPC    = "5001"
	defaultPrefix  = "/api"
	defaultCartTTL = 7 * 24 * time.Hour
)

type Config struct {
	ServiceName    string
	Port           string
	GRPCPort       string
	EndpointPrefix string
	GinMode        string
	PublicURL      string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	CartTTL       time.Duration
	KafkaBrokers  []string
	ConsulAddr    string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	PaymentProvider    string
	PayPalClientID     string
	PayPalClientSecret string
	PayPalBaseURL      string
	StripeSecretKey    string

	SendGridAPIKey  string
	MailFrom        string
	StoreOwnerEmail string
}

// Load reads the optional .env file and then the environment. Collaborator
// settings that are missing stay empty.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		ServiceName:    getenv("SERVICE_NAME", "storefront"),
		Port:           getenv("PORT", defaultPort),
		GRPCPort:       getenv("GRPC_PORT", defaultGRPC),
		EndpointPrefix: getenv("SERVICE_ENDPOINT_PREFIX", defaultPrefix),
		GinMode:        os.Getenv("GIN_MODE"),
		PublicURL:      strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartTTL:       defaultCartTTL,
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		ConsulAddr:    os.Getenv("CONSUL_ADDR"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		PaymentProvider:    strings.ToLower(getenv("PAYMENT_PROVIDER", "paypal")),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalBaseURL:      os.Getenv("PAYPAL_BASE_URL"),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFrom:        os.Getenv("MAIL_FROM"),
		StoreOwnerEmail: os.Getenv("STORE_OWNER_EMAIL"),
	}

	if ttl := os.Getenv("CART_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CART_TTL %q", ttl)
		}
		cfg.CartTTL = d
	}

	switch cfg.PaymentProvider {
	case "paypal", "stripe":
	default:
		return Config{}, fmt.Errorf("unknown PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}

	if !strings.HasPrefix(cfg.EndpointPrefix, "/") {
		cfg.EndpointPrefix = "/" + cfg.EndpointPrefix
	}
	return cfg, nil
}

// PaymentCredentials reports which processor credentials are present, without values.
func (c Config) PaymentCredentials() map[string]bool {
	return map[string]bool{
		"paypal_client_id":     c.PayPalClientID != "",
		"paypal_client_secret": c.PayPalClientSecret != "",
		"stripe_secret_key":    c.StripeSecretKey != "",
	}
}

// LogSummary logs which collaborators are configured.
func (c Config) LogSummary() {
	slog.Info("configuration loaded",
		slog.String("Port", c.Port),
		slog.String("Prefix", c.EndpointPrefix),
		slog.Bool("Database", c.DatabaseURL != ""),
		slog.Bool("Redis", c.RedisAddr != ""),
		slog.Int("Kafka Brokers", len(c.KafkaBrokers)),
		slog.Bool("Consul", c.ConsulAddr != ""),
		slog.Bool("Admin", c.AdminEmail != "" && c.AdminPasswordHash != ""),
		slog.String("Payment Provider", c.PaymentProvider),
		slog.Bool("Mail", c.SendGridAPIKey != ""))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
