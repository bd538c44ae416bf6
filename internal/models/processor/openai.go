package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// OpenAIProcessor implements Processor using OpenAI chat completions
type OpenAIProcessor struct {
	client openai.Client
	model  openai.ChatModel
	logger *Logger.Logger
}

// OpenAIConfig holds configuration for the OpenAI processor
type OpenAIConfig struct {
	APIKey    string
	ModelName string // e.g., "gpt-4o-mini"
}

// NewOpenAIProcessor creates a new OpenAI processor
func NewOpenAIProcessor(config OpenAIConfig, logger *Logger.Logger) *OpenAIProcessor {
	model := openai.ChatModel(config.ModelName)
	if config.ModelName == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIProcessor{
		client: openai.NewClient(option.WithAPIKey(config.APIKey)),
		model:  model,
		logger: logger,
	}
}

// ProcessWithType implements Processor.ProcessWithType
func (o *OpenAIProcessor) ProcessWithType(ctx context.Context, instruction string, input interface{}, out interface{}) error {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	exampleJSON, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal response type: %w", err)
	}

	prompt := fmt.Sprintf(`Input Data:
%s

Expected Response Format (please match this exact structure):
%s

Respond with valid JSON only, matching the expected format exactly.`,
		string(inputJSON), string(exampleJSON))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instruction),
			openai.UserMessage(prompt),
		},
		Model: o.model,
	})
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return ErrEmptyReply
	}

	responseText := strings.TrimSpace(completion.Choices[0].Message.Content)
	if responseText == "" {
		return ErrEmptyReply
	}

	o.logger.Debugf("OpenAI response: %s", responseText)

	if err := json.Unmarshal([]byte(responseText), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	return nil
}
