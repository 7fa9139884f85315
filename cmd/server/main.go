package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/procdocs/sopstruct/internal/analyze"
	"github.com/procdocs/sopstruct/internal/api"
	"github.com/procdocs/sopstruct/internal/config"
	"github.com/procdocs/sopstruct/internal/ocr"
	"github.com/procdocs/sopstruct/internal/pipeline"
	"github.com/procdocs/sopstruct/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	st := store.NewClient(cfg.StoreURL, cfg.StoreAPIKey)
	claude := analyze.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	claude.Stats = analyze.NewLLMStats(time.Hour)

	var ocrClient *ocr.Client
	if cfg.OCREnabled {
		ocrClient = ocr.NewClient(cfg.OCRURL, cfg.OCRAPIKey, cfg.OCRPollInterval)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, claude, st, ocrClient, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, claude, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		claude.Close()
		st.Close()
		if ocrClient != nil {
			ocrClient.Close()
		}
	}()

	log.Info("starting sopstruct", "port", cfg.Port, "ocr_enabled", cfg.OCREnabled)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
