package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tidynest/service-booking/internal/domain/pricing"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds the wizard session store settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds event bus settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// GatewayConfig holds the CRM submission gateway settings.
type GatewayConfig struct {
	SubmitURL     string
	Timeout       time.Duration
	FallbackPhone string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port       string
	AppEnv     string
	AdminJWT   string
	SessionTTL time.Duration
	DBConfig   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Gateway    GatewayConfig

	// Pricing carries optional price-book overrides from the config file; the
	// engine's in-code defaults apply where a key is absent.
	Pricing pricing.CatalogOverrides
}

// Load reads configuration from an optional config.yaml and the environment.
// Environment variables win over file values.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ADMIN_JWT_SECRET", "")
	v.SetDefault("SESSION_TTL_MINUTES", 45)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "tidynest")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "tidynest_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "tidynest-")
	v.SetDefault("CRM_SUBMIT_URL", "http://localhost:9090/api/bookings")
	v.SetDefault("CRM_TIMEOUT_SECONDS", 10)
	v.SetDefault("FALLBACK_PHONE", "(555) 014-2200")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &ServiceConfig{
		Port:       v.GetString("SERVICE_PORT"),
		AppEnv:     v.GetString("APP_ENV"),
		AdminJWT:   v.GetString("ADMIN_JWT_SECRET"),
		SessionTTL: time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Gateway: GatewayConfig{
			SubmitURL:     v.GetString("CRM_SUBMIT_URL"),
			Timeout:       time.Duration(v.GetInt("CRM_TIMEOUT_SECONDS")) * time.Second,
			FallbackPhone: v.GetString("FALLBACK_PHONE"),
		},
	}

	if err := v.UnmarshalKey("pricing", &cfg.Pricing); err != nil {
		return nil, fmt.Errorf("failed to parse pricing overrides: %w", err)
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	return cfg, nil
}
