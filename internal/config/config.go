package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinRefreshInterval is the floor for the aggregator refresh interval.
// Shorter intervals would hammer the upstream provider rate limits.
const MinRefreshInterval = 5 * time.Second

type Config struct {
	ServerHost string
	ServerPort string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTL        time.Duration
	RefreshInterval time.Duration

	DexScreenerQuery string
	JupiterQuery     string
	ProviderTimeout  time.Duration

	MaxPageSize int

	// Kafka snapshot export is disabled when KafkaBroker is empty.
	KafkaBroker string
	KafkaTopic  string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerHost:       getEnv("HOST", "0.0.0.0"),
		ServerPort:       getEnv("PORT", "4000"),
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		RefreshInterval:  time.Duration(getEnvInt("AGGREGATOR_REFRESH_SECONDS", 15)) * time.Second,
		DexScreenerQuery: getEnv("DEXSCREENER_SEARCH_QUERY", "trending"),
		JupiterQuery:     getEnv("JUPITER_SEARCH_QUERY", "SOL"),
		ProviderTimeout:  time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 5)) * time.Second,
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", 100),
		KafkaBroker:      getEnv("KAFKA_BROKER", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "token_snapshots"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if cfg.RefreshInterval < MinRefreshInterval {
		cfg.RefreshInterval = MinRefreshInterval
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
