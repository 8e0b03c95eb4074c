package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
}

type ClearanceConfig struct {
	// Minimum normalized-name similarity treated as a potential duplicate.
	NameSimilarityThreshold float64
}

type Config struct {
	HTTPPort    int
	LogLevel    string
	DB          DatabaseConfig
	Kafka       KafkaConfig
	Clearance   ClearanceConfig
	OTLPAddr    string
	ServiceName string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8090),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "clearline"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "submissions"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		},
		Clearance: ClearanceConfig{
			NameSimilarityThreshold: getEnvFloat("CLEARANCE_NAME_SIMILARITY", 0.85),
		},
		OTLPAddr:    getEnv("OTLP_ADDR", ""),
		ServiceName: "submission-engine",
	}
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
