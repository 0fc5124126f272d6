package config

import (
	"os"
	"strconv"
	"time"
)

// Config aggregates all runtime configuration. Built once in main and handed
// to constructors; nothing reads the environment after startup.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Cache    Cache
	MinIO    MinIO
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

// Postgres captures the authoritative store connection settings.
type Postgres struct {
	DSN string
}

// Redis captures primary cache backend settings. An empty URL means Redis is
// not configured and the in-process cache is used alone.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Cache controls the cache coordinator. Enabled=false turns every read into
// a direct store read; invalidation becomes a no-op.
type Cache struct {
	Enabled    bool
	DefaultTTL time.Duration
	ListTTL    time.Duration
}

// MinIO captures the S3-compatible object store holding supplementary file
// content. An empty endpoint means uploads keep metadata only.
type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("DOCROUTE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSigningKey: jwtSigningKey,
		},
		Postgres: Postgres{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Cache: Cache{
			Enabled:    os.Getenv("CACHE_DISABLED") != "true",
			DefaultTTL: envDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
			ListTTL:    envDuration("CACHE_LIST_TTL", time.Minute),
		},
		MinIO: MinIO{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    envString("MINIO_BUCKET", "docroute-files"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
