// Package gemini transcribes audio clips through the Gemini API using inline
// audio data.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/mockmate/internal/constants/prompts"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/stt"
	"google.golang.org/api/option"
)

type Config struct {
	APIKey    string
	ModelName string // e.g., "gemini-1.5-flash"
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *Logger.Logger
}

func New(ctx context.Context, cfg Config, logger *Logger.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Transcribe implements stt.Transcriber.
func (c *Client) Transcribe(ctx context.Context, clip stt.Clip) (string, error) {
	if len(clip.Data) == 0 {
		return "", stt.ErrEmptyResult
	}

	mimeType := clip.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	resp, err := c.model.GenerateContent(ctx,
		genai.Text(prompts.TranscriptionInstruction),
		genai.Blob{MIMEType: mimeType, Data: clip.Data},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", stt.ErrUnavailable, err)
	}

	// safety/finish-reason stops come back as candidates with nil Content
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", stt.ErrEmptyResult
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text += string(textPart)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", stt.ErrEmptyResult
	}

	c.logger.Debugf("transcribed %d bytes of %s into %d chars", len(clip.Data), mimeType, len(text))
	return text, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
