package config

import (
	"os"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

type Config struct {
	Port            string
	Environment     string // ENV: production, development, etc.
	PlatformAPIBase string
	PlatformTimeout time.Duration
	AllowedOrigins  []string
	AllowedHost     string // bare hostname for the production host check

	FlagsBackend  string
	RedisURI      string
	PostgresURI   string
	LedgerBackend string
	MongoURI      string

	EncryptionKey       string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	RewardMode string // remote or local
	TwinPort   string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = parseOrigins(getEnv("FRONTEND_URL", "http://localhost:3000"))
	}

	var allowedHost string
	if env == "production" {
		allowedHost = hostname(getEnv("HOST", ""))
	}

	return &Config{
		Port:                getEnv("PORT", "8090"),
		Environment:         env,
		PlatformAPIBase:     strings.TrimRight(getEnv("PLATFORM_API_BASE", "http://localhost:8091/api"), "/"),
		PlatformTimeout:     getDuration("PLATFORM_TIMEOUT", 10*time.Second),
		AllowedOrigins:      allowedOrigins,
		AllowedHost:         allowedHost,
		FlagsBackend:        oneOf(getEnv("FLAGS_BACKEND", BackendRedis), BackendRedis, BackendRedis, BackendPostgres, BackendMemory),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/innerbloom?sslmode=disable"),
		LedgerBackend:       oneOf(getEnv("LEDGER_BACKEND", BackendMemory), BackendMemory, BackendMongo, BackendMemory),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/innerbloom")),
		EncryptionKey:       getEnv("ENCRYPTION_KEY", ""),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "innerbloom/guides"),
		RewardMode:          oneOf(getEnv("REWARD_MODE", "remote"), "remote", "remote", "local"),
		TwinPort:            getEnv("TWIN_PORT", "8091"),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// CloudinaryEnabled reports whether guide archiving is configured.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

// oneOf lowercases v and returns it if allowed, else def.
func oneOf(v, def string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
