package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppName    string
	AppVersion string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	Port    string
	GinMode string

	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	return &Config{
		AppName:    getEnv("APP_NAME", "Task Management API"),
		AppVersion: getEnv("APP_VERSION", "1.0.0"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "tasks"),
		DBPath:     getEnv("DB_PATH", "tasks.db"),

		Port:    getEnv("PORT", "8000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 100),
		MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 1000),
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
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
