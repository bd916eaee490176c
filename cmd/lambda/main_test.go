package main

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/bot"
	"github.com/domino14/guobiao/config"
)

func TestHandleRequest(t *testing.T) {
	is := is.New(t)
	evt := bot.LambdaEvent{
		ID: "foo",
		Request: analyzer.Request{
			Action:    analyzer.ActionFan,
			Hand:      "123m456m789mCCCEE",
			Flag:      "self-drawn",
			Prevalent: "S",
			Seat:      "W",
		},
	}
	cfg = config.DefaultConfig()
	scorer = bot.NewBot(cfg)
	ctx := context.Background()
	ret, err := HandleRequest(ctx, evt)
	is.NoErr(err)
	is.Equal(ret.Error, "")
	is.Equal(ret.Response.Fan.Total, 29)

	ret, err = HandleRequest(ctx, bot.LambdaEvent{ID: "bar", Request: analyzer.Request{Action: "fan", Hand: "11m"}})
	is.NoErr(err)
	is.True(ret.Error != "")
}
