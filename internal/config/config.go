package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI           string
	DatabaseName       string
	JWTSecret          string
	TokenExpiryMinutes int
	Host               string
	Port               string
	GinMode            string
	CORSOrigins        []string
}

func Load() *Config {
	// A missing .env file is fine; real environment variables win.
	_ = godotenv.Load()

	return &Config{
		MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:       getEnv("DATABASE_NAME", "task_management"),
		JWTSecret:          getEnv("JWT_SECRET", "development-secret-key-change-in-production"),
		TokenExpiryMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		Host:               getEnv("HOST", "0.0.0.0"),
		Port:               getEnv("PORT", "8000"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		CORSOrigins:        getEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
