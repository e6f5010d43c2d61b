package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/antoniostano/asistente/internal/config"
	"github.com/antoniostano/asistente/internal/httpapi"
	"github.com/antoniostano/asistente/internal/journal"
	"github.com/antoniostano/asistente/internal/llm"
	"github.com/antoniostano/asistente/internal/logging"
	"github.com/antoniostano/asistente/internal/menu"
	"github.com/antoniostano/asistente/internal/observability"
	"github.com/antoniostano/asistente/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config error")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	journalStore, err := journal.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("journal store init failed")
	}
	defer journalStore.Close()

	gateway, err := llm.NewGateway(llm.Config{
		Mode:        cfg.LLMProvider,
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("llm gateway init failed")
	}
	logging.Info().Str("provider", llm.Name(gateway)).Str("model", cfg.OpenAIModel).Msg("llm gateway ready")

	sessions := session.NewStore(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(s *session.Session) {
		metrics.SessionEvent("expired")
		metrics.SetActiveSessions(sessions.Len())
		logging.Debug().Str("session", s.Key).Msg("session expired")
	})
	reaper := session.NewReaper(sessions)
	defer reaper.Close()
	reaper.SetReapHook(func(key string) {
		metrics.SessionEvent("reaped")
		metrics.SetActiveSessions(sessions.Len())
		logging.Debug().Str("session", key).Msg("session reaped")
	})

	engine := menu.NewEngine(sessions, reaper, gateway, journalStore, metrics, menu.Config{
		ReapDelay:        cfg.ExitReapDelay,
		ProjectMaxTokens: cfg.ProjectMaxTokens,
	})

	api := httpapi.New(cfg, engine, gateway, metrics)
	httpServer := &http.Server{
		Addr:     cfg.BindAddr,
		Handler:  api.Router(),
		ErrorLog: logging.StdErrorLogger(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, cfg.JanitorInterval)

	go func() {
		logging.Info().Str("addr", cfg.BindAddr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("listen error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logging.Info().Msg("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
		_ = httpServer.Close()
	}

	logging.Info().Msg("shutdown complete")
}
