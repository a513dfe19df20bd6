package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/scribe-flow/internal/config"
	"github.com/nguyentantai21042004/scribe-flow/internal/extractor"
	"github.com/nguyentantai21042004/scribe-flow/internal/gemini"
	"github.com/nguyentantai21042004/scribe-flow/internal/keywatch"
	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
	"github.com/nguyentantai21042004/scribe-flow/internal/pipeline"
	"github.com/nguyentantai21042004/scribe-flow/internal/server"
	"github.com/nguyentantai21042004/scribe-flow/internal/store"
	"github.com/nguyentantai21042004/scribe-flow/internal/summarizer"
	"github.com/nguyentantai21042004/scribe-flow/internal/transcriber"
	"github.com/nguyentantai21042004/scribe-flow/pkg/executor"
)

func main() {
	ctx := context.Background()

	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Video Transcription Service")
	log.Info(ctx, "========================================")

	if err := os.MkdirAll(cfg.Paths.Uploads, 0755); err != nil {
		log.Error(ctx, "Failed to create uploads directory: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Error(ctx, "Failed to open database: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	// The provider starts empty when no key is configured; the engines then
	// report the service unavailable instead of failing requests outright.
	provider := gemini.NewProvider(nil)
	if apiKey := cfg.ResolveAPIKey(); apiKey != "" {
		client, err := gemini.NewClient(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			log.Error(ctx, "Failed to configure Gemini client: %v", err)
		} else {
			provider.Set(client)
			log.Info(ctx, "Gemini client configured (model: %s)", cfg.Gemini.Model)
		}
	} else {
		log.Warn(ctx, "No Gemini API key configured; transcription and summarization are unavailable")
	}

	exec := executor.New()
	pipe := pipeline.New(
		extractor.New(cfg.Paths.Uploads, exec, log),
		transcriber.New(provider, log),
		summarizer.New(provider, log),
		log,
	)

	srv := server.New(cfg, st, pipe, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Swap the Gemini client whenever the key file changes.
	kw, err := keywatch.New(cfg.Gemini.APIKeyFile, func(ctx context.Context, key string) {
		if key == "" {
			provider.Set(nil)
			log.Warn(ctx, "Gemini API key cleared; inference unavailable")
			return
		}
		client, err := gemini.NewClient(ctx, key, cfg.Gemini.Model)
		if err != nil {
			log.Error(ctx, "Failed to reload Gemini client: %v", err)
			return
		}
		provider.Set(client)
		log.Info(ctx, "Gemini client reloaded")
	}, log)
	if err != nil {
		log.Warn(ctx, "API key watcher disabled: %v", err)
	} else {
		defer kw.Stop()
		go func() {
			if err := kw.Start(ctx); err != nil && err != context.Canceled {
				log.Error(ctx, "Key watcher error: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	log.Info(ctx, "Listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info(ctx, "Uploads: %s", cfg.Paths.Uploads)
	log.Info(ctx, "Database: %s", cfg.Database.Path)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	if err := srv.Stop(context.Background()); err != nil {
		log.Error(ctx, "Shutdown error: %v", err)
	}

	log.Info(ctx, "Service stopped")
}
