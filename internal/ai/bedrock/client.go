// Package bedrock serves generation requests through the Bedrock Converse API.
// Converse has no response-schema option, so the schema is appended to the
// system instructions.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/logger"
)

const (
	ProviderName = "bedrock"

	defaultModel     = "us.amazon.nova-2-lite-v1:0"
	defaultMaxTokens = 4096
)

type converser interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Client struct {
	api    converser
	model  string
	logger *zap.Logger
}

// New loads the default AWS credential chain. region overrides the configured
// region when set.
func New(ctx context.Context, region, model string, log *zap.Logger) (*Client, error) {
	var opts []func(*config.LoadOptions) error
	if region = strings.TrimSpace(region); region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		api:    bedrockruntime.NewFromConfig(cfg),
		model:  model,
		logger: logger.WithProvider(log, ProviderName, model),
	}, nil
}

func (c *Client) Name() string  { return ProviderName }
func (c *Client) Model() string { return c.model }

func (c *Client) Generate(ctx context.Context, req *ai.Request) (string, error) {
	if req == nil {
		return "", errors.New("request is required")
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.model),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt(req)},
		},
		Messages: []types.Message{{
			Role: types.ConversationRoleUser,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: req.Prompt},
			},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens: aws.Int32(defaultMaxTokens),
		},
	}
	if req.Temperature > 0 {
		input.InferenceConfig.Temperature = aws.Float32(float32(req.Temperature))
	}

	resp, err := c.api.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	text := strings.TrimSpace(outputText(resp))
	if text == "" {
		return "", ai.ErrEmptyResponse
	}

	c.logger.Debug("bedrock response", zap.Int("response_length", len(text)))
	return text, nil
}

func systemPrompt(req *ai.Request) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(req.System))

	if req.Schema != nil {
		if raw, err := json.Marshal(req.Schema); err == nil {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString("Respond with a single JSON object and nothing else. It must match this JSON schema:\n")
			b.Write(raw)
		}
	}

	return b.String()
}

func outputText(resp *bedrockruntime.ConverseOutput) string {
	if resp == nil || resp.Output == nil {
		return ""
	}
	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(tb.Value)
		}
	}
	return b.String()
}
