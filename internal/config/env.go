package config

import (
	"os"
	"strconv"
	"strings"
)

// Env holds the environment-provided settings for the backend.
// Loaded once in main after godotenv has run.
type Env struct {
	PostgresDSN     string
	RedisAddr       string
	RedisPassword   string
	HTTPAddr        string
	JWTSecret       string
	AdminEmails     []string
	TelegramToken   string
	TelegramChatID  string
	EmailWebhookURL string
	GroqAPIKey      string
	GroqModel       string
}

// LoadEnv reads configuration from environment variables with sane defaults
// for local development.
func LoadEnv() Env {
	e := Env{
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RedisAddr:       getOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		HTTPAddr:        getOr("HTTP_ADDR", ":8080"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:  os.Getenv("TELEGRAM_CHAT_ID"),
		EmailWebhookURL: os.Getenv("EMAIL_WEBHOOK_URL"),
		GroqAPIKey:      ResolveGroqKey(),
		GroqModel:       getOr("GROQ_MODEL", "llama-3.3-70b-versatile"),
	}

	if e.PostgresDSN == "" {
		e.PostgresDSN = "host=localhost user=user password=password dbname=campusconnect port=5432 sslmode=disable"
	}

	for _, email := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			e.AdminEmails = append(e.AdminEmails, email)
		}
	}

	return e
}

// TelegramAdminChat parses the configured chat ID. Returns 0 when unset or
// malformed, which disables Telegram delivery.
func (e Env) TelegramAdminChat() int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(e.TelegramChatID), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ResolveGroqKey returns the active Groq credential.
// Precedence: explicit operator override > environment default.
// Returns "" when AI verification is not configured.
func ResolveGroqKey() string {
	if override := os.Getenv("GROQ_API_KEY_OVERRIDE"); len(override) > 10 {
		return override
	}
	if key := os.Getenv("GROQ_API_KEY"); len(key) > 10 {
		return key
	}
	return ""
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
