package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bubblehead/internal/imagegen"
)

// MaxUploadLimit bounds MAX_UPLOAD_BYTES; uploads are buffered in memory.
const MaxUploadLimit int64 = 1 << 30

// Config represents application configuration loaded from environment variables.
// It is built once at start-up and never mutated afterwards.
type Config struct {
	AppEnv             string
	Port               string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIImageModel   string
	OpenAIOrg          string
	OpenAITimeout      time.Duration
	HelmetDir          string
	HelmetS3Bucket     string
	HelmetS3Prefix     string
	DefaultHelmet      string
	MaxUploadBytes     int64
	MaxImageDimension  int
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	TrustProxyHeaders  bool
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIImageModel:   getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		OpenAITimeout:      time.Second * time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 300)),
		HelmetDir:          strings.TrimSpace(os.Getenv("HELMET_DIR")),
		HelmetS3Bucket:     strings.TrimSpace(os.Getenv("HELMET_S3_BUCKET")),
		HelmetS3Prefix:     strings.TrimSpace(os.Getenv("HELMET_S3_PREFIX")),
		DefaultHelmet:      getEnv("DEFAULT_HELMET", "helmet.png"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		MaxImageDimension:  getEnvInt("MAX_IMAGE_DIMENSION", imagegen.DefaultMaxDimension),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 360)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.HelmetDir != "" && cfg.HelmetS3Bucket != "" {
		return nil, fmt.Errorf("HELMET_DIR and HELMET_S3_BUCKET are mutually exclusive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.MaxUploadBytes > MaxUploadLimit {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be at most %d", MaxUploadLimit)
	}

	return cfg, nil
}

// ShutdownTimeout is how long in-flight requests may drain on shutdown. It
// covers a full write timeout so running generations can finish.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.HTTPWriteTimeout > c.HTTPIdleTimeout {
		return c.HTTPWriteTimeout
	}
	return c.HTTPIdleTimeout
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
