package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string

	// Background jobs
	QueueName   string
	WorkerCount int
	JobTimeout  time.Duration

	// DeepL configuration
	DeepLAPIURL  string
	DeepLTimeout time.Duration

	// Host framework (Frappe) configuration
	FrappeURL       string
	FrappeAPIKey    string
	FrappeAPISecret string
	FrappeTimeout   time.Duration
	MetaCacheTTL    time.Duration

	// JWT configuration, tokens are minted by the host for its desk UI
	JWTSecret string

	// internal secret used by the host when calling hooks
	InternalSecret string

	// Seed values for the settings singleton, only used on first boot
	SeedAPIKey          string
	SeedSourceLanguage  string
	SeedTargetLanguages string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	AppConfig = FromEnv()
}

// FromEnv builds a Config from the current process environment.
func FromEnv() Config {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = generateRandomSecret(32) // Generate a 32-byte random secret if not declared
		log.Println("Generated random JWT secret")
	}

	return Config{
		ServerPort:          getEnv("PORT", "8080"),
		Environment:         getEnv("ENV", "development"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "versioned_translator"),
		RedisAddress:        getEnv("REDIS_ADDRESS", "localhost:6379"),
		QueueName:           getEnv("QUEUE_NAME", "long"),
		WorkerCount:         getEnvInt("WORKER_COUNT", 4),
		JobTimeout:          getEnvSeconds("JOB_TIMEOUT_SECONDS", 600),
		DeepLAPIURL:         getEnv("DEEPL_API_URL", "https://api-free.deepl.com/v2/translate"),
		DeepLTimeout:        getEnvSeconds("DEEPL_TIMEOUT_SECONDS", 30),
		FrappeURL:           getEnv("FRAPPE_URL", "http://localhost:8000"),
		FrappeAPIKey:        getEnv("FRAPPE_API_KEY", ""),
		FrappeAPISecret:     getEnv("FRAPPE_API_SECRET", ""),
		FrappeTimeout:       getEnvSeconds("FRAPPE_TIMEOUT_SECONDS", 15),
		MetaCacheTTL:        getEnvSeconds("META_CACHE_TTL_SECONDS", 600),
		JWTSecret:           jwtSecret,
		InternalSecret:      getEnv("INTERNAL_SECRET", "versioned-translator-internal-secret"),
		SeedAPIKey:          getEnv("DEEPL_API_KEY", ""),
		SeedSourceLanguage:  getEnv("TRANSLATION_SOURCE_LANGUAGE", "de"),
		SeedTargetLanguages: getEnv("TRANSLATION_TARGET_LANGUAGES", ""),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}

// generateRandomSecret generates a random secret of the specified length
func generateRandomSecret(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	secret := make([]byte, length)
	for i := range secret {
		secret[i] = charset[random(len(charset))]
	}
	return string(secret)
}

// random returns a random integer between 0 and n-1
func random(n int) int {
	return int(time.Now().UnixNano()) % n
}
