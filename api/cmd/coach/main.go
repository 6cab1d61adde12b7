// TOEFL Speaking coach — HTTP API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"speak-coach/api/internal/auth"
	"speak-coach/api/internal/config"
	"speak-coach/api/internal/gemini"
	"speak-coach/api/internal/handle"
	"speak-coach/api/internal/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	eng := gemini.New(cfg.GeminiAPIKey, cfg.GradingModel, cfg.QuestionModel)

	var supa *auth.Supabase
	if cfg.SupabaseURL != "" {
		supa = auth.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	} else {
		slog.Info("SUPABASE_URL not set, auth callback will reject exchanges")
	}

	h := handle.New(eng, supa)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Use(middleware.CORS([]string{"*"}))

	r.Route("/api", func(api chi.Router) {
		if cfg.AuthPublicKey != "" {
			key, err := auth.ParsePublicKey(cfg.AuthPublicKey)
			if err != nil {
				slog.Error("bad AUTH_PUBLIC_KEY", "error", err)
				os.Exit(1)
			}
			api.Use(auth.RequireSession(key))
			slog.Info("API routes require a verified session")
		}
		api.Post("/chat", h.Chat)
		api.Post("/generate-question", h.GenerateQuestion)
	})
	r.Get("/auth/callback", h.AuthCallback)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 4 * time.Minute, // grading calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("coach listening", "addr", srv.Addr, "grading_model", cfg.GradingModel, "question_model", cfg.QuestionModel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
