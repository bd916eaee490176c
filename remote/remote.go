// Package remote scores hands through the deployed Lambda function.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/bot"
)

var ErrFunction = errors.New("function error")

// InvokeAPI is the part of the Lambda client used here.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

type Client struct {
	api      InvokeAPI
	function string
}

// NewClient loads the default AWS configuration (environment, shared
// files, instance role) and targets function.
func NewClient(ctx context.Context, function string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewClientWithAPI(lambda.NewFromConfig(cfg), function), nil
}

func NewClientWithAPI(api InvokeAPI, function string) *Client {
	return &Client{api: api, function: function}
}

// Analyze invokes the function synchronously with one request.
func (c *Client) Analyze(ctx context.Context, id string, req analyzer.Request) (*analyzer.Response, error) {
	payload, err := json.Marshal(bot.LambdaEvent{ID: id, Request: req})
	if err != nil {
		return nil, err
	}
	out, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(c.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, err
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrFunction, aws.ToString(out.FunctionError), out.Payload)
	}
	log.Debug().Str("id", id).Int32("status", out.StatusCode).Msg("lambda-invoked")
	return bot.DecodeReply(out.Payload)
}
