package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/worker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	exePath, err := os.Executable()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get executable path")
	}
	cfg.AdjustRelativePaths(filepath.Dir(exePath))
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded config")

	cache.GlobalTranspositionTable.Reset(cfg.GetFloat64(config.ConfigCacheMemoryFraction), 0)

	workerConfig := worker.WorkerConfigFrom(cfg)
	if workerConfig.QueueURL == "" {
		log.Fatal().Msg("worker-url is not set")
	}
	w := worker.NewScoringWorker(workerConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker failed")
	}

	log.Info().Msg("scoring worker stopped")
}
