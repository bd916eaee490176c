package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/bot"
	"github.com/domino14/guobiao/config"
)

var cfg *config.Config
var nc *nats.Conn
var scorer *bot.Bot

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (*bot.Reply, error) {
	logger := log.With().
		Str("id", evt.ID).
		Str("hand", evt.Request.Hand).
		Logger()

	reply := scorer.Answer(&evt.Request)
	if reply.Error != "" {
		logger.Info().Str("error", reply.Error).Msg("analysis-failed")
	}

	if evt.ReplyChannel != "" && nc != nil {
		data, err := json.Marshal(reply)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("sending-via-nats")
		err = retry.Do(
			func() error {
				// We're just waiting for an acknowledgement. The actual
				// data doesn't matter.
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				return err
			},
			retry.Context(ctx),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")
	return reply, nil
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg = config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-args")
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")
	cfg.AdjustRelativePaths(exPath)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if url := cfg.GetString(config.ConfigNatsURL); url != "" {
		nc, err = nats.Connect(url)
		if err != nil {
			log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
		}
	}

	scorer = bot.NewBot(cfg)
	lambda.Start(HandleRequest)
}
