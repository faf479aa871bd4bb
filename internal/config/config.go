package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	ImageStoreDisk = "disk"
	ImageStoreS3   = "s3"

	defaultDatabaseName = "izza_estetica"
)

type Config struct {
	Environment             string
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	AuthSecret       string
	AuthTokenTTL     time.Duration
	AuthCookieSecure bool

	DatabaseURL      string
	DatabaseName     string
	DBMaxConns       int32
	DBMinConns       int32
	DBConnectTimeout time.Duration

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
	TrustedProxies   []string

	ImageStore      string
	UploadsRoot     string
	UploadMaxBytes  int64
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string

	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

type LoadOptions struct {
	// RequireAuthSecret is false for tooling that never signs tokens.
	RequireAuthSecret bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{RequireAuthSecret: true})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	environment := strings.ToLower(getEnv("APP_ENV", EnvDevelopment))

	cfg := &Config{
		Environment:             environment,
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		AuthSecret:              strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AuthTokenTTL:            getDuration("AUTH_TOKEN_TTL", 7*24*time.Hour),
		AuthCookieSecure:        getBool("AUTH_COOKIE_SECURE", environment == EnvProduction),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DatabaseName:            getEnv("DATABASE_NAME", defaultDatabaseName),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 0)),
		DBConnectTimeout:        getDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		TrustedProxies:          splitCSV(getEnv("TRUSTED_PROXIES", "")),
		ImageStore:              strings.ToLower(getEnv("IMAGE_STORE", ImageStoreDisk)),
		UploadsRoot:             getEnv("UPLOADS_ROOT", "./public/uploads"),
		UploadMaxBytes:          getInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		S3Prefix:                getEnv("S3_PREFIX", "uploads/products/"),
		S3PublicBaseURL:         strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		MetricsAddr:             getEnv("METRICS_ADDR", ":9090"),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
	}

	if opts.RequireAuthSecret && cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.AuthTokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}

	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}

	for _, proxy := range c.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
		}
	}

	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	switch c.ImageStore {
	case ImageStoreDisk:
		if strings.TrimSpace(c.UploadsRoot) == "" {
			return fmt.Errorf("UPLOADS_ROOT cannot be empty")
		}
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when IMAGE_STORE=s3")
		}
		if c.S3PublicBaseURL == "" {
			return fmt.Errorf("S3_PUBLIC_BASE_URL is required when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("IMAGE_STORE must be %q or %q", ImageStoreDisk, ImageStoreS3)
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
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

func validProxy(entry string) bool {
	if strings.Contains(entry, "/") {
		_, _, err := net.ParseCIDR(entry)
		return err == nil
	}
	return net.ParseIP(entry) != nil
}
