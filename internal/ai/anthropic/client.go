// Package anthropic serves structured generation requests through Claude by
// forcing a single tool call whose input is the requested JSON object.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/logger"
)

const (
	ProviderName = "anthropic"

	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 4096
	defaultToolName  = "submit_result"
)

type messageCreator interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

type Client struct {
	messages messageCreator
	model    string
	logger   *zap.Logger
}

func New(apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	client := sdk.NewClient(option.WithAPIKey(apiKey))

	return &Client{
		messages: &client.Messages,
		model:    model,
		logger:   logger.WithProvider(log, ProviderName, model),
	}, nil
}

func (c *Client) Name() string  { return ProviderName }
func (c *Client) Model() string { return c.model }

func (c *Client) Generate(ctx context.Context, req *ai.Request) (string, error) {
	if req == nil {
		return "", errors.New("request is required")
	}

	params := buildParams(c.model, req)

	c.logger.Debug("anthropic request", zap.String("tool", params.Tools[0].OfTool.Name))

	msg, err := c.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	return toolInput(msg)
}

func buildParams(model string, req *ai.Request) sdk.MessageNewParams {
	name := strings.TrimSpace(req.SchemaName)
	if name == "" {
		name = defaultToolName
	}
	description := strings.TrimSpace(req.SchemaDescription)
	if description == "" {
		description = "Submit the result as structured data."
	}

	var schema sdk.ToolInputSchemaParam
	if req.Schema != nil {
		schema.Properties = req.Schema.Properties
		schema.Required = req.Schema.Required
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: defaultMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
		Tools: []sdk.ToolUnionParam{{
			OfTool: &sdk.ToolParam{
				Name:        name,
				Description: sdk.String(description),
				InputSchema: schema,
			},
		}},
		ToolChoice: sdk.ToolChoiceUnionParam{
			OfTool: &sdk.ToolChoiceToolParam{Name: name},
		},
	}

	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if req.Temperature > 0 {
		params.Temperature = sdk.Float(req.Temperature)
	}

	return params
}

func toolInput(msg *sdk.Message) (string, error) {
	if msg == nil {
		return "", ai.ErrEmptyResponse
	}

	var text strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case sdk.ToolUseBlock:
			raw, err := json.Marshal(b.Input)
			if err != nil {
				return "", fmt.Errorf("encode tool input: %w", err)
			}
			return string(raw), nil
		case sdk.TextBlock:
			text.WriteString(b.Text)
		}
	}

	// Models occasionally answer in prose despite the forced tool.
	if out := strings.TrimSpace(text.String()); out != "" {
		return out, nil
	}
	return "", ai.ErrEmptyResponse
}
