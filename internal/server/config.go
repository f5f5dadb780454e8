package server

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config is read from the environment; a .env file in the working directory
// is loaded first.
type Config struct {
	Port       int
	UploadDir  string
	OutputDir  string
	SessionTTL time.Duration
	LogLevel   string
	// OwnerPassword unlocks owner protected uploads for merging.
	OwnerPassword string
}

func LoadConfig() Config {
	cfg := Config{
		Port:          8080,
		UploadDir:     "uploads",
		OutputDir:     "output",
		SessionTTL:    30 * time.Minute,
		LogLevel:      "info",
		OwnerPassword: os.Getenv("PDF_OWNER_PASSWORD"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		cfg.Port = port
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		cfg.UploadDir = dir
	}
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}
	if ttl, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && ttl > 0 {
		cfg.SessionTTL = ttl
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	return cfg
}
