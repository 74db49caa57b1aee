// Package openai serves structured generation requests through OpenAI chat
// models using a required function call.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/logger"
)

const (
	ProviderName = "openai"

	defaultModel    = "gpt-4o-mini"
	defaultToolName = "submit_result"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Client struct {
	llm    contentGenerator
	model  string
	logger *zap.Logger
}

func New(apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	llm, err := lcopenai.New(
		lcopenai.WithModel(model),
		lcopenai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &Client{llm: llm, model: model, logger: logger.WithProvider(log, ProviderName, model)}, nil
}

func (c *Client) Name() string  { return ProviderName }
func (c *Client) Model() string { return c.model }

func (c *Client) Generate(ctx context.Context, req *ai.Request) (string, error) {
	if req == nil {
		return "", errors.New("request is required")
	}

	messages := []llms.MessageContent{}
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{
		llms.WithTools([]llms.Tool{tool(req)}),
		llms.WithToolChoice("required"),
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("openai generate content: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	if len(choice.ToolCalls) > 0 && choice.ToolCalls[0].FunctionCall != nil {
		args := strings.TrimSpace(choice.ToolCalls[0].FunctionCall.Arguments)
		c.logger.Debug("openai tool call", zap.String("function", choice.ToolCalls[0].FunctionCall.Name))
		if args != "" {
			return args, nil
		}
	}

	if content := strings.TrimSpace(choice.Content); content != "" {
		return content, nil
	}
	return "", ai.ErrEmptyResponse
}

func tool(req *ai.Request) llms.Tool {
	name := strings.TrimSpace(req.SchemaName)
	if name == "" {
		name = defaultToolName
	}

	var params any = map[string]any{"type": "object", "properties": map[string]any{}}
	if req.Schema != nil {
		// Round-trip through JSON so the schema is sent as a plain object.
		if raw, err := json.Marshal(req.Schema); err == nil {
			var decoded map[string]any
			if json.Unmarshal(raw, &decoded) == nil {
				params = decoded
			}
		}
	}

	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: req.SchemaDescription,
			Parameters:  params,
		},
	}
}
