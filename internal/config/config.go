package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Auth    AuthConfig
	QR      QRConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageConfig struct {
	DataDir string
}

type RedisConfig struct {
	Addr     string
	Enabled  bool
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Enabled  bool
	MockMode bool
	Topics   TopicConfig
}

type TopicConfig struct {
	TicketIssued    string
	TicketBooked    string
	TicketCancelled string
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
	TokenTTL  time.Duration
}

type QRConfig struct {
	SecretKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":3000"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", "database"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			CacheTTL: time.Duration(getEnvInt("REDIS_CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				TicketIssued:    getEnv("KAFKA_TOPIC_ISSUED", "railway.ticket.issued"),
				TicketBooked:    getEnv("KAFKA_TOPIC_BOOKED", "railway.ticket.booked"),
				TicketCancelled: getEnv("KAFKA_TOPIC_CANCELLED", "railway.ticket.cancelled"),
			},
		},
		Auth: AuthConfig{
			Enabled:   getEnvBool("AUTH_ENABLED", false),
			JWTSecret: getEnv("JWT_SECRET", "rail-ticketing-dev-secret"),
			TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		QR: QRConfig{
			SecretKey: getEnv("QR_SECRET_KEY", "rail-ticketing-qr-secret"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
