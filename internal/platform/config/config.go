package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// Registry parameters; adjustable at runtime through the admin surface.
	CreationFee   uint64
	MaxAgreements uint64

	// Height source parameters.
	GenesisHeight uint64
	BlockTime     time.Duration

	AuthorityURL string

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds connection settings for the durable store.
// An empty URL selects the in-memory store.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds connection settings for the name cache.
// An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the audit event stream.
// Empty brokers disable publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          envOr("SPONSORREG_ADDR", ":8080"),
		JWTSigningKey: jwtSigningKey,
		CreationFee:   envUint("SPONSORREG_CREATION_FEE", 1000),
		MaxAgreements: envUint("SPONSORREG_MAX_AGREEMENTS", 1000),
		GenesisHeight: envUint("SPONSORREG_GENESIS_HEIGHT", 0),
		BlockTime:     envDuration("SPONSORREG_BLOCK_TIME", 10*time.Minute),
		AuthorityURL:  os.Getenv("SPONSORREG_AUTHORITY_URL"),
		Postgres: PostgresConfig{
			URL: os.Getenv("SPONSORREG_POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("SPONSORREG_REDIS_URL"),
			PoolSize:     int(envUint("SPONSORREG_REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envUint("SPONSORREG_REDIS_MIN_IDLE", 2)),
			DialTimeout:  envDuration("SPONSORREG_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SPONSORREG_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SPONSORREG_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("SPONSORREG_KAFKA_BROKERS"),
			Topic:   envOr("SPONSORREG_KAFKA_TOPIC", "sponsorreg.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
