package config

import (
	"log"
	"os"
)

type Config struct {
	Port string

	GeminiAPIKey  string
	GradingModel  string
	QuestionModel string

	// Supabase auth. AuthPublicKey is a PEM-encoded key used to verify
	// session JWTs; when empty the API routes are left open.
	SupabaseURL     string
	SupabaseAnonKey string
	AuthPublicKey   string

	// Optional Postgres question bank (bot fallback only).
	DatabaseURL string

	TelegramBotToken string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		GeminiAPIKey:  mustEnv("GEMINI_API_KEY"),
		GradingModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		QuestionModel: getEnv("QUESTION_MODEL", "gemini-2.5-flash"),

		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		AuthPublicKey:   getEnv("AUTH_PUBLIC_KEY", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}
}

// LoadBot is Load plus the envs only the Telegram bot requires.
func LoadBot() *Config {
	cfg := Load()
	cfg.TelegramBotToken = mustEnv("TELEGRAM_BOT_TOKEN")
	return cfg
}
