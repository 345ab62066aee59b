package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/civicconnect-api/internal/constants"
)

type Config struct {
	Port       string
	GinMode    string
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	JWTSecret string
	JWTExpiry time.Duration
	ClientURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	OpenAIAPIKey string

	SchedulerEnabled bool
	SchedulerSpec    string
}

// Load reads configuration from the environment, loading .env first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded, using environment only")
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "civicuser"),
		DBPassword: getEnv("DB_PASSWORD", "civicpassword"),
		DBName:     getEnv("DB_NAME", "civicconnect"),
		DBPath:     getEnv("DB_PATH", "civicconnect.db"),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTExpiry: getDuration("JWT_EXPIRY", constants.DefaultTokenExpiry),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:5173"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		SchedulerEnabled: getBool("SCHEDULER_ENABLED", true),
		SchedulerSpec:    getEnv("SCHEDULER_SPEC", "0 */15 * * * *"),
	}
}

// RedisAddr returns host:port, or an empty string when no relay is configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}
