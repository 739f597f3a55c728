package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// App holds the application-level settings read once at startup. Connection
// settings for the datastores stay with their Init functions.
type App struct {
	Port string

	CVSessionTTL        time.Duration
	InterviewSessionTTL time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	LLMProvider         string // "gemini" | "vertex"
	GeminiAPIKey        string
	GCPProject          string
	GCPLocation         string
	LLMModel            string
	GCSBucket           string // empty disables CV archival
	GoogleOAuthID       string
	GoogleOAuthSecret   string
	GoogleOAuthRedirect string
}

func LoadApp() (*App, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	app := &App{
		Port:                envDefault("PORT", "8000"),
		CVSessionTTL:        time.Duration(envInt("CV_SESSION_TTL_SECONDS", 1800)) * time.Second,
		InterviewSessionTTL: time.Duration(envInt("INTERVIEW_SESSION_TTL_SECONDS", 7200)) * time.Second,
		JWTSecret:           secret,
		JWTExpiry:           time.Duration(envInt("JWT_EXPIRY_HOURS", 168)) * time.Hour,
		LLMProvider:         envDefault("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GCPProject:          os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCPLocation:         envDefault("GOOGLE_CLOUD_LOCATION", "us-central1"),
		LLMModel:            os.Getenv("LLM_MODEL"),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		GoogleOAuthID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleOAuthSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleOAuthRedirect: os.Getenv("GOOGLE_REDIRECT_URL"),
	}
	return app, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
