package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the admin service.
type Config struct {
	HTTPPort      string
	JWTSecret     []byte
	AdminPassword string

	Registry RegistryConfig
	Training TrainingConfig
	Provider ProviderConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// RegistryConfig holds model registry settings
type RegistryConfig struct {
	ModelsFile string // JSON file with user-added model entries
}

// TrainingConfig holds training-set builder settings
type TrainingConfig struct {
	OutputFile    string // JSONL file the builder writes
	MaxUploadSize int64  // per-request limit for CSV uploads, in bytes
}

// ProviderConfig holds fine-tuning provider settings
type ProviderConfig struct {
	APIKey         string
	BaseURL        string        // override for tests and proxies
	RequestTimeout time.Duration // default timeout for provider requests
}

// DatabaseConfig holds database connection settings. An empty URL disables
// the fine-tune job history.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis connection settings. An empty address disables the
// job status cache.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JobCacheTTL  time.Duration
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}

	cfg := &Config{
		HTTPPort:      getEnvString("HTTP_PORT", "8080"),
		JWTSecret:     []byte(getEnvString("JWT_SECRET", "supersecretkey")),
		AdminPassword: adminPassword,
		Registry: RegistryConfig{
			ModelsFile: getEnvString("MODELS_FILE", "my_saved_models.json"),
		},
		Training: TrainingConfig{
			OutputFile:    getEnvString("TRAINING_OUTPUT_FILE", "filtered_data.jsonl"),
			MaxUploadSize: getEnvInt64("TRAINING_MAX_UPLOAD_SIZE", 33_554_432), // default 32 MB
		},
		Provider: ProviderConfig{
			APIKey:         apiKey,
			BaseURL:        getEnvString("OPENAI_BASE_URL", ""),
			RequestTimeout: getEnvDuration("PROVIDER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", ""),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			JobCacheTTL:  getEnvDuration("JOB_CACHE_TTL", 10*time.Second),
		},
	}

	return cfg, nil
}
