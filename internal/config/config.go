package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	OrderStoreMongo    = "mongo"
	OrderStorePostgres = "postgres"
)

type Config struct {
	Port        string
	GRPCPort    string
	Environment string
	LogLevel    string

	OrderStore string
	Mongo      MongoConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Email      EmailConfig
	Checkout   CheckoutConfig
	Admin      AdminConfig

	RequestTimeout       time.Duration
	ShutdownTimeout      time.Duration
	ContactRatePerMinute int
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type EmailConfig struct {
	RelayURL   string
	ServiceID  string
	PublicKey  string
	PrivateKey string
	AdminEmail string
	Templates  EmailTemplates
}

type EmailTemplates struct {
	Confirmation string
	Admin        string
	Status       string
	Contact      string
}

// Enabled reports whether the relay has enough settings to send mail.
func (e EmailConfig) Enabled() bool {
	return e.ServiceID != "" && e.PublicKey != ""
}

type CheckoutConfig struct {
	ShippingFee        int64
	PaymentDelay       time.Duration
	PaymentFailureRate float64
	SessionTTL         time.Duration
}

type AdminConfig struct {
	KeyHash string
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// .env is optional
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GRPC_PORT", "50060")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORDER_STORE", OrderStoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "storefront")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MIGRATIONS_PATH", "./internal/repository/migrations")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "storefront-orders")
	v.SetDefault("EMAILJS_URL", "https://api.emailjs.com")
	v.SetDefault("EMAILJS_TEMPLATE_CONFIRMATION", "order_confirmation_template")
	v.SetDefault("EMAILJS_TEMPLATE_ADMIN", "admin_notification_template")
	v.SetDefault("EMAILJS_TEMPLATE_STATUS", "status_update_template")
	v.SetDefault("EMAILJS_TEMPLATE_CONTACT", "contact_form_template")
	v.SetDefault("ADMIN_EMAIL", "admin@crochetcreations.com")
	v.SetDefault("SHIPPING_FEE", 1000)
	v.SetDefault("PAYMENT_DELAY", "1500ms")
	v.SetDefault("PAYMENT_FAILURE_RATE", 0.0)
	v.SetDefault("CHECKOUT_SESSION_TTL", "2h")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CONTACT_RATE_PER_MINUTE", 5)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		GRPCPort:    v.GetString("GRPC_PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		OrderStore:  strings.ToLower(v.GetString("ORDER_STORE")),
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetInt("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			DBName:         v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Email: EmailConfig{
			RelayURL:   v.GetString("EMAILJS_URL"),
			ServiceID:  v.GetString("EMAILJS_SERVICE_ID"),
			PublicKey:  v.GetString("EMAILJS_PUBLIC_KEY"),
			PrivateKey: v.GetString("EMAILJS_PRIVATE_KEY"),
			AdminEmail: v.GetString("ADMIN_EMAIL"),
			Templates: EmailTemplates{
				Confirmation: v.GetString("EMAILJS_TEMPLATE_CONFIRMATION"),
				Admin:        v.GetString("EMAILJS_TEMPLATE_ADMIN"),
				Status:       v.GetString("EMAILJS_TEMPLATE_STATUS"),
				Contact:      v.GetString("EMAILJS_TEMPLATE_CONTACT"),
			},
		},
		Checkout: CheckoutConfig{
			ShippingFee:        v.GetInt64("SHIPPING_FEE"),
			PaymentDelay:       v.GetDuration("PAYMENT_DELAY"),
			PaymentFailureRate: v.GetFloat64("PAYMENT_FAILURE_RATE"),
			SessionTTL:         v.GetDuration("CHECKOUT_SESSION_TTL"),
		},
		Admin: AdminConfig{
			KeyHash: v.GetString("ADMIN_KEY_HASH"),
		},
		RequestTimeout:       v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout:      v.GetDuration("SHUTDOWN_TIMEOUT"),
		ContactRatePerMinute: v.GetInt("CONTACT_RATE_PER_MINUTE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.OrderStore {
	case OrderStoreMongo, OrderStorePostgres:
	default:
		return fmt.Errorf("ORDER_STORE must be %q or %q, got %q", OrderStoreMongo, OrderStorePostgres, c.OrderStore)
	}
	if c.Checkout.ShippingFee < 0 {
		return fmt.Errorf("SHIPPING_FEE must not be negative")
	}
	if c.Checkout.PaymentFailureRate < 0 || c.Checkout.PaymentFailureRate > 1 {
		return fmt.Errorf("PAYMENT_FAILURE_RATE must be between 0 and 1")
	}
	if c.Environment == "production" && c.Admin.KeyHash == "" {
		return fmt.Errorf("ADMIN_KEY_HASH is required in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
