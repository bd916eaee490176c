package remote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/bot"
	"github.com/domino14/guobiao/config"
)

// localLambda answers invocations with an in-process bot.
type localLambda struct {
	b        *bot.Bot
	function string
	fail     bool
}

func (l *localLambda) Invoke(ctx context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	l.function = aws.ToString(in.FunctionName)
	if l.fail {
		return &lambda.InvokeOutput{StatusCode: 200, FunctionError: aws.String("Unhandled"),
			Payload: []byte(`{"errorMessage":"boom"}`)}, nil
	}
	var evt bot.LambdaEvent
	if err := json.Unmarshal(in.Payload, &evt); err != nil {
		return nil, err
	}
	req, _ := json.Marshal(evt.Request)
	return &lambda.InvokeOutput{StatusCode: 200, Payload: l.b.Handle(req)}, nil
}

func TestAnalyze(t *testing.T) {
	api := &localLambda{b: bot.NewBot(config.DefaultConfig())}
	c := NewClientWithAPI(api, "guobiao-score")

	resp, err := c.Analyze(context.Background(), "h1", analyzer.Request{
		Action: analyzer.ActionFan, Hand: "123m456m789mCCCEE", Prevalent: "S", Seat: "W"})
	require.NoError(t, err)
	assert.Equal(t, 27, resp.Fan.Total)
	assert.Equal(t, "guobiao-score", api.function)

	_, err = c.Analyze(context.Background(), "h2", analyzer.Request{Action: "nope"})
	assert.True(t, errors.Is(err, bot.ErrBot))
}

func TestFunctionError(t *testing.T) {
	c := NewClientWithAPI(&localLambda{fail: true}, "f")
	_, err := c.Analyze(context.Background(), "h1", analyzer.Request{Action: analyzer.ActionWait})
	assert.ErrorIs(t, err, ErrFunction)
}
