// TOEFL Speaking coach — Telegram bot.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/joho/godotenv"

	"speak-coach/api/internal/config"
	"speak-coach/api/internal/gemini"
	"speak-coach/api/internal/questionbank"
	"speak-coach/api/internal/store"
	"speak-coach/api/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.LoadBot()

	// Optional Postgres question bank.
	var repo questionbank.Repo
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			slog.Error("sql.Open failed", "error", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			slog.Error("db ping failed", "error", err)
			os.Exit(1)
		}
		qr := store.NewQuestionRepo(db)
		if err := qr.EnsureSchema(ctx); err != nil {
			cancel()
			slog.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		cancel()
		repo = qr
		slog.Info("question bank connected")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("telegram auth failed", "error", err)
		os.Exit(1)
	}
	bot.Debug = false
	slog.Info("bot authorized", "username", bot.Self.UserName)

	router := &telegram.Router{
		Bot:  bot,
		Eng:  gemini.New(cfg.GeminiAPIKey, cfg.GradingModel, cfg.QuestionModel),
		Bank: questionbank.New(repo),
	}

	// Liveness endpoint for the hosting platform.
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.Port
		slog.Info("healthz listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("healthz server failed", "error", err)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for upd := range bot.GetUpdatesChan(u) {
		go router.HandleUpdate(upd)
	}
}
