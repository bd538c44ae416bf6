package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"google.golang.org/api/option"
)

// GeminiProcessor implements Processor using the Google Gemini API
type GeminiProcessor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *Logger.Logger
}

// GeminiConfig holds configuration for the Gemini processor
type GeminiConfig struct {
	APIKey    string
	ModelName string // e.g., "gemini-1.5-flash"
}

// NewGeminiProcessor creates a new Gemini processor
func NewGeminiProcessor(ctx context.Context, config GeminiConfig, logger *Logger.Logger) (*GeminiProcessor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := config.ModelName
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	model := client.GenerativeModel(modelName)

	// JSON-only replies, low temperature for consistent scoring
	model.ResponseMIMEType = "application/json"
	model.Temperature = &[]float32{0.1}[0]

	return &GeminiProcessor{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// ProcessWithType implements Processor.ProcessWithType
func (g *GeminiProcessor) ProcessWithType(ctx context.Context, instruction string, input interface{}, out interface{}) error {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	exampleJSON, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal response type: %w", err)
	}

	prompt := fmt.Sprintf(`%s

Input Data:
%s

Expected Response Format (please match this exact structure):
%s

Please respond with valid JSON only, matching the expected format exactly.`,
		instruction, string(inputJSON), string(exampleJSON))

	g.logger.Debugf("Gemini processor prompt: %s", prompt)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}

	// safety/finish-reason stops come back as candidates with nil Content
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ErrEmptyReply
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			responseText += string(textPart)
		}
	}

	responseText = strings.TrimSpace(responseText)
	if responseText == "" {
		return ErrEmptyReply
	}

	g.logger.Debugf("Gemini response: %s", responseText)

	if err := json.Unmarshal([]byte(responseText), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	return nil
}

// Close cleans up the Gemini processor
func (g *GeminiProcessor) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
