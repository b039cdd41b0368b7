package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret signs local tokens outside production when JWT_SECRET is unset
const devJWTSecret = "supersecretjwtkey"

// Auth modes
const (
	AuthModeJWT      = "jwt"
	AuthModeFirebase = "firebase"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresURL             string
	MongoURI                string
	MongoDatabase           string
	MetricsPort             string
	JWTSecret               string
	JWTTTL                  time.Duration
	AuthMode                string
	GeminiAPIKey            string
	GeminiModel             string
	AIRateLimit             float64 // requests per second per identity
	AsyncWriteTimeout       time.Duration
}

// Load reads configuration from the environment, after an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "petconnect"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTTTL:                  getDuration("JWT_TTL", 72*time.Hour),
		AuthMode:                getEnv("AUTH_MODE", AuthModeJWT),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AIRateLimit:             getFloat("AI_RATE_LIMIT", 1),
		AsyncWriteTimeout:       getDuration("ASYNC_WRITE_TIMEOUT", 10*time.Second),
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devJWTSecret
	}
	return cfg
}

// Validate rejects settings the API server cannot run with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.AuthMode != AuthModeJWT && c.AuthMode != AuthModeFirebase {
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
