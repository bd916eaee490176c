package bot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
)

var ErrBot = errors.New("bot returned an error")

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel, timeout: 10 * time.Second}
}

// DecodeReply turns a bot reply into a response or an ErrBot error.
func DecodeReply(data []byte) (*analyzer.Response, error) {
	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, errors.Join(ErrBot, errors.New(reply.Error))
	}
	if reply.Response == nil {
		return nil, errors.New("should never happen")
	}
	return reply.Response, nil
}

// Request sends a request to the bot and waits for its answer.
func (c *Client) Request(req *analyzer.Request) (*analyzer.Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	res, err := c.nc.Request(c.channel, data, c.timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Err(c.nc.LastError()).Msg("nats-last-error")
		}
		log.Error().Err(err).Msg("request-failed")
		return nil, err
	}
	log.Debug().RawJSON("res", res.Data).Msg("bot-reply")
	return DecodeReply(res.Data)
}
