package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type OpenAI struct {
	APIKey        string
	BaseURL       string
	Model         string
	RatePerMinute int
}

type Trigger struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
	Lease       time.Duration
}

type Config struct {
	Env             string
	HTTPAddr        string
	Store           string
	AutoMigrate     bool
	PostgresURI     string
	RedisURI        string
	CorsOrigins     []string
	SecretKey       string
	CredentialsKey  string
	CookieName      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PublishTimeout  time.Duration
	Trigger         Trigger
	OpenAI          OpenAI
	R2              R2
}

func LoadConfig() *Config {
	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":3000"),
		Store:           getEnv("STORE", "postgres"),
		AutoMigrate:     getEnvBool("AUTO_MIGRATE", false),
		PostgresURI:     getEnv("POSTGRES_URI", ""),
		RedisURI:        getEnv("REDIS_URI", "127.0.0.1:6379"),
		CorsOrigins:     getEnvList("CORS_ORIGINS", "http://localhost:5173"),
		SecretKey:       getEnv("SECRET_KEY", ""),
		CredentialsKey:  getEnv("CREDENTIALS_KEY", ""),
		CookieName:      getEnv("COOKIE_NAME", "socialflow_token"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		PublishTimeout:  getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second),
		Trigger: Trigger{
			Interval:    getEnvDuration("TRIGGER_INTERVAL", time.Minute),
			BatchSize:   getEnvInt("TRIGGER_BATCH", 100),
			Concurrency: getEnvInt("TRIGGER_CONCURRENCY", 10),
			Lease:       getEnvDuration("FIRE_LEASE", 5*time.Minute),
		},
		OpenAI: OpenAI{
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			BaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RatePerMinute: getEnvInt("AI_RATE_PER_MINUTE", 20),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, defaultValue), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
