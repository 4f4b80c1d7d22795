package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs from the environment.
// It is built once in main and passed down; nothing reads os.Getenv after startup.
type Config struct {
	Port          string
	MongoURI      string
	DatabaseName  string
	JWTSecret     string
	CloudinaryURL string
	GeminiAPIKey  string
}

// Load reads a .env file if one exists, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseName:  getEnv("MONGODB_DATABASE", "picfeed"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.CloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL must be set")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
