// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
    Database DatabaseConfig
    Server   ServerConfig
    JWT      JWTConfig
    Tokens   TokenConfig
    Redis    RedisConfig
    SMTP     SMTPConfig
    Env      string
}

type DatabaseConfig struct {
    Host     string
    Port     string
    User     string
    Password string
    DBName   string
}

type ServerConfig struct {
    Port    string
    BaseURL string
}

type JWTConfig struct {
    Secret     string
    SessionTTL time.Duration
}

type TokenConfig struct {
    VerificationMaxAge time.Duration
    ResetMaxAge        time.Duration
}

type RedisConfig struct {
    URL string
}

type SMTPConfig struct {
    Host     string
    Port     string
    User     string
    Password string
    From     string
}

func LoadConfig() (*Config, error) {
    // Load .env file if it exists
    if err := godotenv.Load(); err != nil {
        log.Printf("Warning: .env file not found")
    }

    config := &Config{
        Database: DatabaseConfig{
            Host:     getEnv("DB_HOST", "localhost"),
            Port:     getEnv("DB_PORT", "3306"),
            User:     getEnv("DB_USER", ""),
            Password: getEnv("DB_PASSWORD", ""),
            DBName:   getEnv("DB_NAME", "teamspace"),
        },
        Server: ServerConfig{
            Port:    getEnv("SERVER_PORT", "8080"),
            BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
        },
        JWT: JWTConfig{
            Secret:     getEnv("JWT_SECRET", "your-default-secret-key"),
            SessionTTL: getEnvHours("SESSION_TTL_HOURS", 24),
        },
        Tokens: TokenConfig{
            VerificationMaxAge: getEnvHours("VERIFICATION_TOKEN_HOURS", 24),
            ResetMaxAge:        getEnvHours("RESET_TOKEN_HOURS", 1),
        },
        Redis: RedisConfig{
            URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
        },
        SMTP: SMTPConfig{
            Host:     getEnv("SMTP_HOST", ""),
            Port:     getEnv("SMTP_PORT", "587"),
            User:     getEnv("SMTP_USER", ""),
            Password: getEnv("SMTP_PASSWORD", ""),
            From:     getEnv("SMTP_FROM", "no-reply@teamspace.local"),
        },
        Env: getEnv("ENVIRONMENT", "development"),
    }

    return config, nil
}

func getEnv(key, defaultValue string) string {
    if value, exists := os.LookupEnv(key); exists {
        return value
    }
    return defaultValue
}

func getEnvHours(key string, defaultHours int) time.Duration {
    if value, exists := os.LookupEnv(key); exists {
        if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
            return time.Duration(hours) * time.Hour
        }
    }
    return time.Duration(defaultHours) * time.Hour
}
