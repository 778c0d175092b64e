package config

import (
	"errors"
	"os"
)

// SMTP carries outbound mail settings.
type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// app config, loaded once at startup
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	RedisAddr    string
	GeminiAPIKey string
	GeminiModel  string
	SMTP         SMTP
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		MongoURI:     os.Getenv("MONGO_URI"),
		DBName:       getEnvOrDefault("INTERVIEW_DB_NAME", "interviewai"),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", "dev"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		SMTP: SMTP{
			Host: getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
			Port: getEnvOrDefault("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
	}
	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.User
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
