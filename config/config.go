// Package config holds runtime configuration sourced from env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	MongoURI string
	MongoDB  string

	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	ResetTokenTTL time.Duration
	FrontendURL   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	NATSURL      string

	S3Region        string
	S3Endpoint      string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	S3UsePathStyle  bool

	RazorpayKey     string
	RazorpaySecret  string
	RazorpayPlanID  string
	RazorpayBaseURL string
}

// Load reads configuration from the environment and performs minimal
// validation. Secrets are injected into their consumers at wiring
// time; nothing reads the environment past startup.
func Load() (Config, error) {
	cfg := Config{
		Port:     fallback(os.Getenv("PORT"), "5000"),
		MongoURI: strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDB:  fallback(os.Getenv("MONGO_DB"), "lms"),

		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:   fallback(os.Getenv("JWT_ISSUER"), "lms-server"),
		FrontendURL: fallback(os.Getenv("FRONTEND_URL"), "http://localhost:3000"),

		SMTPHost:     fallback(os.Getenv("SMTP_HOST"), "localhost"),
		SMTPPort:     intFallback(os.Getenv("SMTP_PORT"), 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     fallback(os.Getenv("SMTP_FROM_EMAIL"), "noreply@coursewire.io"),
		NATSURL:      strings.TrimSpace(os.Getenv("NATS_URL")),

		S3Region:        fallback(os.Getenv("AWS_REGION"), "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET_NAME")),
		S3AccessKey:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:  os.Getenv("S3_USE_PATH_STYLE") == "true",

		RazorpayKey:     strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		RazorpaySecret:  strings.TrimSpace(os.Getenv("RAZORPAY_SECRET")),
		RazorpayPlanID:  os.Getenv("RAZORPAY_PLAN_ID"),
		RazorpayBaseURL: fallback(os.Getenv("RAZORPAY_BASE_URL"), "https://api.razorpay.com"),
	}

	cfg.JWTTTL = time.Duration(intFallback(os.Getenv("JWT_TTL_MINUTES"), 7*24*60)) * time.Minute
	cfg.ResetTokenTTL = time.Duration(intFallback(os.Getenv("RESET_TOKEN_TTL_MINUTES"), 15)) * time.Minute

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func intFallback(value string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return def
}
