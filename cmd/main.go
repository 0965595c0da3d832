package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"transcriptsum/internal/config"
	"transcriptsum/internal/metrics"
	"transcriptsum/internal/ratelimiter"
	"transcriptsum/internal/server"
	"transcriptsum/internal/summarizer"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	dispatcher, err := initDispatcher(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize providers",
			"error", err)

		return err
	}

	rl := ratelimiter.New(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	defer rl.Stop()
	log.InfoContext(ctx, "Rate limiter is initialized",
		"enabled", rl != nil,
		"rps", cfg.RateLimitRPS,
		"burst", cfg.RateLimitBurst)

	srv := server.New(cfg, dispatcher, metrics.New(), rl, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.InfoContext(ctx, "Server is started",
		"addr", cfg.Addr,
		"allowedOrigins", cfg.AllowedOrigins)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case err = <-errCh:
		if err != nil {
			log.ErrorContext(ctx, "Server stopped unexpectedly",
				"error", err)

			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Failed to shut down server gracefully",
			"error", err,
			"timeout", cfg.ShutdownTimeout)

		return err
	}

	log.InfoContext(ctx, "Server is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}

func initDispatcher(ctx context.Context, cfg config.Config, log *slog.Logger) (*summarizer.Dispatcher, error) {
	primary, err := initProvider(ctx, log, summarizer.ProviderOpenAI, summarizer.ProviderConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	secondary, err := initProvider(ctx, log, summarizer.ProviderGoogle, summarizer.ProviderConfig{
		APIKey:  cfg.GoogleAPIKey,
		BaseURL: cfg.GoogleBaseURL,
		Model:   cfg.GoogleModel,
	}, "GOOGLE_API_KEY")
	if err != nil {
		return nil, err
	}

	return summarizer.NewDispatcher(primary, secondary), nil
}

func initProvider(
	ctx context.Context,
	log *slog.Logger,
	kind summarizer.ProviderKind,
	providerCfg summarizer.ProviderConfig,
	keyEnvVar string,
) (*summarizer.OpenAICompatProvider, error) {
	p, err := summarizer.NewOpenAICompatProvider(kind, providerCfg)
	if err != nil {
		return nil, err
	}

	if !p.Configured() {
		log.WarnContext(ctx, keyEnvVar+" is missing so requests to this provider will fail",
			"envVar", keyEnvVar,
			"provider", kind.String())

		return p, nil
	}

	log.InfoContext(ctx, "Provider is initialized",
		"provider", kind.String(),
		"model", p.Model())

	return p, nil
}
