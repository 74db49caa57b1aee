package bedrock

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
)

type stubConverser struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (s *stubConverser) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.input = params
	return s.out, s.err
}

type payload struct {
	Question string `json:"question"`
}

func textOutput(parts ...string) *bedrockruntime.ConverseOutput {
	content := make([]types.ContentBlock, 0, len(parts))
	for _, p := range parts {
		content = append(content, &types.ContentBlockMemberText{Value: p})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{Role: types.ConversationRoleAssistant, Content: content}},
	}
}

func TestGenerate(t *testing.T) {
	stub := &stubConverser{out: textOutput(`{"question":`, `"q"}`)}
	c := &Client{api: stub, model: "nova-test", logger: zap.NewNop()}

	out, err := c.Generate(context.Background(), &ai.Request{
		System:      "sys",
		Prompt:      "prompt",
		Schema:      ai.SchemaFor[payload](),
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"question":"q"}` {
		t.Fatalf("unexpected output %q", out)
	}

	if aws.ToString(stub.input.ModelId) != "nova-test" {
		t.Fatalf("unexpected model id %q", aws.ToString(stub.input.ModelId))
	}
	system := stub.input.System[0].(*types.SystemContentBlockMemberText).Value
	if !strings.HasPrefix(system, "sys") || !strings.Contains(system, `"question"`) {
		t.Fatalf("expected schema in system prompt, got %q", system)
	}
	if aws.ToFloat32(stub.input.InferenceConfig.Temperature) != float32(0.3) {
		t.Fatalf("expected temperature to be forwarded")
	}
}

func TestGenerateEmpty(t *testing.T) {
	c := &Client{api: &stubConverser{out: &bedrockruntime.ConverseOutput{}}, model: "nova-test", logger: zap.NewNop()}
	if _, err := c.Generate(context.Background(), &ai.Request{Prompt: "p"}); !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}

	boom := errors.New("throttled")
	c.api = &stubConverser{err: boom}
	if _, err := c.Generate(context.Background(), &ai.Request{Prompt: "p"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
