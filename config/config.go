package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret string

	SearchBuffer      int
	SearchMaxFetch    int
	ResolverScanLimit int

	MaxImagesPerProperty int
	MaxImageBytes        int
}

func Load() Config {
	return Config{
		Port:     getenv("PORT", "8080"),
		Env:      getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		MongoURI: getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGODB_DATABASE", "housesadda"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getduration("CACHE_TTL", 60*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SearchBuffer:      getint("SEARCH_BUFFER", 50),
		SearchMaxFetch:    getint("SEARCH_MAX_FETCH", 500),
		ResolverScanLimit: getint("RESOLVER_SCAN_LIMIT", 500),

		MaxImagesPerProperty: getint("MAX_IMAGES_PER_PROPERTY", 12),
		MaxImageBytes:        getint("MAX_IMAGE_BYTES", 1048576),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
