// Package config loads service settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "development"
	EnvProd  = "production"

	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
	DriverMemory   = "memory"
)

const defaultMeetingLink = "https://calendly.com/rahyanakil89/appoinment-booking"

// Config holds every setting the service reads at startup.
type Config struct {
	Env         string
	Port        string
	StoreDriver string

	DB    DBConfig
	Mongo MongoConfig
	Mail  MailConfig
	Kafka KafkaConfig

	TokenSecret      string
	PaymentSecretKey string
	MeetingLink      string

	// StrictMutations requires a bearer token on the place delete,
	// place status, booking create and booking delete routes.
	StrictMutations bool
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a libpq-compatible connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// MailConfig holds the SMTP relay account used as the fixed sender.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration
}

// KafkaConfig enables the optional notice sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

var (
	ErrMissingTokenSecret   = errors.New("ACCESS_TOKEN_SECRET is required")
	ErrMissingPaymentSecret = errors.New("PAYMENT_SECRET_KEY is required")
	ErrUnknownStoreDriver   = errors.New("unknown STORE_DRIVER")
)

// Load reads the configuration, loading .env first if it exists.
func Load() (*Config, error) {
	// A missing .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("ENV", EnvLocal),
		Port:        getEnv("PORT", "5000"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "careconnect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "CareConnectsDb"),
		},
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("MAIL_PORT", 587),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			Timeout:  getEnvAsDuration("MAIL_TIMEOUT", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_NOTICE_TOPIC", "booking_notices"),
		},
		TokenSecret:      os.Getenv("ACCESS_TOKEN_SECRET"),
		PaymentSecretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		MeetingLink:      getEnv("MEETING_LINK", defaultMeetingLink),
		StrictMutations:  getEnvAsBool("AUTH_STRICT_MUTATIONS", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return ErrMissingTokenSecret
	}
	if c.PaymentSecretKey == "" {
		return ErrMissingPaymentSecret
	}
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
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
