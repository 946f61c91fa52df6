package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	StorageDriver           string
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	JWTSecret               string
	JWTExpiration           time.Duration
	CORSOrigins             []string
	RateLimitRPM            int
	AuthRateLimitRPM        int
	RosterMaxAttempts       int
	AdminEmail              string
	AdminPassword           string
	LogLevel                string
	LogFormat               string
}

// Load reads .env, then the optional YAML file at path, then the process
// environment. Later sources win. Keys are the upper-case variable names;
// the YAML file uses the same names in lower case.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	src := source{k: k}
	cfg := &Config{
		ServerPort:              src.str("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: src.duration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      src.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       src.duration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          src.duration("REQUEST_TIMEOUT", 30*time.Second),
		StorageDriver:           strings.ToLower(src.str("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:             src.str("DATABASE_URL", ""),
		DBMaxConns:              int32(src.integer("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(src.integer("DB_MIN_CONNS", 1)),
		JWTSecret:               src.str("JWT_SECRET", ""),
		JWTExpiration:           src.duration("JWT_EXPIRATION", 24*time.Hour),
		CORSOrigins:             splitCSV(src.str("CORS_ORIGINS", "*")),
		RateLimitRPM:            src.integer("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM:        src.integer("AUTH_RATE_LIMIT_RPM", 20),
		RosterMaxAttempts:       src.integer("ROSTER_MAX_ATTEMPTS", 3),
		AdminEmail:              src.str("ADMIN_EMAIL", ""),
		AdminPassword:           src.str("ADMIN_PASSWORD", ""),
		LogLevel:                strings.ToLower(src.str("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(src.str("LOG_FORMAT", "pretty")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are out of range")
	}

	if c.RosterMaxAttempts <= 0 {
		return fmt.Errorf("ROSTER_MAX_ATTEMPTS must be positive")
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

type source struct {
	k *koanf.Koanf
}

func (s source) raw(key string) string {
	return strings.TrimSpace(s.k.String(strings.ToLower(key)))
}

func (s source) str(key string, fallback string) string {
	v := s.raw(key)
	if v == "" {
		return fallback
	}

	return v
}

func (s source) integer(key string, fallback int) int {
	raw := s.raw(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func (s source) duration(key string, fallback time.Duration) time.Duration {
	raw := s.raw(key)
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
