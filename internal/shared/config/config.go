package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Env               string
	OCRProvider       string
	TesseractPath     string
	TesseractLanguage string
	SessionTTL        time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:              os.Getenv("PORT"),
		Env:               os.Getenv("ENV"),
		OCRProvider:       os.Getenv("OCR_PROVIDER"),
		TesseractPath:     os.Getenv("TESSERACT_PATH"),
		TesseractLanguage: os.Getenv("TESSERACT_LANGUAGE"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.OCRProvider == "" {
		cfg.OCRProvider = "tesseract"
	}
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if cfg.TesseractLanguage == "" {
		cfg.TesseractLanguage = "eng"
	}

	ttlMinutes := 60
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttlMinutes = parsed
		}
	}
	cfg.SessionTTL = time.Duration(ttlMinutes) * time.Minute

	return cfg
}
