package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/api"
	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
	ResultTTL               = time.Hour
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-args")
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	debug := cfg.GetBool(config.ConfigDebug)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	cache.GlobalTranspositionTable.Reset(cfg.GetFloat64(config.ConfigCacheMemoryFraction), 0)

	results, err := cache.NewResultCache(cfg.GetInt64(config.ConfigCacheMaxCost),
		cfg.GetString(config.ConfigRedisURL), ResultTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("result-cache")
	}
	defer results.Close()

	an := analyzer.NewAnalyzer(cfg)
	an.SetTranspositionTable(cache.GlobalTranspositionTable)
	an.SetResultCache(results)

	router, err := api.SetupRouter(api.NewHandler(an), debug)
	if err != nil {
		log.Fatal().Err(err).Msg("router")
	}
	srv := &http.Server{
		Addr:    cfg.GetString(config.ConfigServerAddr),
		Handler: router,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", srv.Addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
	<-idleConnsClosed
	log.Info().Msg("server gracefully shutting down")
}
