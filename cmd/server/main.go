package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/momentsync/internal/adapters/http"
	"github.com/dkeye/momentsync/internal/app"
	"github.com/dkeye/momentsync/internal/config"
	"github.com/dkeye/momentsync/internal/media"
	"github.com/dkeye/momentsync/internal/store/sqlite"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	st, err := sqlite.NewStore(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate store")
	}

	storage, err := media.NewDiskStorage(cfg.Media.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init media storage")
	}
	var analyzer media.Analyzer
	if cfg.Media.AnalyzerURL != "" {
		analyzer = media.NewHTTPAnalyzer(cfg.Media.AnalyzerURL)
	}
	mediaSvc := media.NewService(storage, media.NewFFmpeg(cfg.Media.FFmpegPath), analyzer)

	// Registry and session book exist before the first connection and
	// reach every connection task through the orchestrator.
	orch := app.NewOrchestrator(app.NewRegistry(), st, app.NewSessionBook())

	r := router.SetupRouter(ctx, cfg, orch, st, mediaSvc)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("MomentSync server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
