// Package bot answers analyzer requests sent over NATS.
package bot

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
)

const DefaultChannel = "guobiao.bot"

// Reply is what the bot sends back: a response or an error message.
type Reply struct {
	Response *analyzer.Response `json:"response,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// LambdaEvent is the payload of a scoring request delivered through
// AWS Lambda. When ReplyChannel is set the reply is also published there.
type LambdaEvent struct {
	ID           string           `json:"id"`
	Request      analyzer.Request `json:"request"`
	ReplyChannel string           `json:"reply_channel,omitempty"`
}

type Bot struct {
	config   *config.Config
	analyzer *analyzer.Analyzer
}

func NewBot(cfg *config.Config) *Bot {
	an := analyzer.NewAnalyzer(cfg)
	an.SetTranspositionTable(cache.GlobalTranspositionTable)
	return &Bot{config: cfg, analyzer: an}
}

func errorReply(message string, err error) *Reply {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Reply{Error: msg}
}

func (bot *Bot) handle(data []byte) *Reply {
	var req analyzer.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorReply("could not parse request", err)
	}
	return bot.Answer(&req)
}

// Answer runs a decoded request.
func (bot *Bot) Answer(req *analyzer.Request) *Reply {
	resp, err := bot.analyzer.Do(req)
	if err != nil {
		return errorReply("could not analyze "+req.Hand, err)
	}
	return &Reply{Response: resp}
}

// Handle answers one encoded request with an encoded Reply.
func (bot *Bot) Handle(data []byte) []byte {
	out, err := json.Marshal(bot.handle(data))
	if err != nil {
		// Should never happen, ideally, but we need to do something sensible here.
		return []byte(err.Error())
	}
	return out
}

// Main subscribes the bot to channel. The subscription lives until the
// connection is drained or closed.
func Main(nc *nats.Conn, channel string, bot *Bot) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("recv")
		if err := m.Respond(bot.Handle(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return nil, err
	}
	if err := nc.Flush(); err != nil {
		return nil, err
	}
	if err := nc.LastError(); err != nil {
		return nil, err
	}
	log.Info().Str("channel", channel).Msg("listening")
	return sub, nil
}
