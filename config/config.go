package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DatabaseName string `mapstructure:"database_name"`
}

type Config struct {
	ListenAddr string         `mapstructure:"listen_addr"`
	Database   DatabaseConfig `mapstructure:"database"`
	RedisAddr  string         `mapstructure:"redis_addr"`
	JWTSecret  string         `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration  `mapstructure:"token_ttl"`
}

// Load reads an optional .env then the environment. Missing keys fall back to
// local-dev defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		Database: DatabaseConfig{
			Host:         getenv("DB_HOST", "localhost"),
			Port:         getenvInt("DB_PORT", 3306),
			Username:     getenv("DB_USERNAME", "doctruyen"),
			Password:     getenv("DB_PASSWORD", "doctruyen"),
			DatabaseName: getenv("DB_NAME", "doctruyen"),
		},
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: getenv("JWT_SECRET", "dev-secret"),
		TokenTTL:  getenvDuration("TOKEN_TTL", 24*time.Hour),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
