package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/bot"
	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
)

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-args")
	}
	cfg.AdjustRelativePaths(exPath)
	log.Info().Interface("config", cfg.SanitizedSettings()).Str("exPath", exPath).Msg("loaded-config")

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	cache.GlobalTranspositionTable.Reset(cfg.GetFloat64(config.ConfigCacheMemoryFraction), 0)

	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("nats-connect")
	}
	if _, err := bot.Main(nc, bot.DefaultChannel, bot.NewBot(cfg)); err != nil {
		log.Fatal().Err(err).Msg("subscribe")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("got quit signal...")
	if err := nc.Drain(); err != nil {
		log.Err(err).Msg("drain")
	}
	log.Info().Msg("server gracefully shutting down")
}
