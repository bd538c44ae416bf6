package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/mockmate/internal/config"
	"github.com/xpanvictor/mockmate/internal/models/processor"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/stt"
	sttgemini "github.com/xpanvictor/mockmate/pkg/stt/gemini"
)

// ProcessorFactory builds the generative processor and transcriber from
// settings. Question generation and feedback scoring can run on either
// provider; audio transcription always runs on Gemini.
type ProcessorFactory struct {
	config *config.Settings
	logger *Logger.Logger
}

// NewProcessorFactory creates a new processor factory
func NewProcessorFactory(cfg *config.Settings, logger *Logger.Logger) *ProcessorFactory {
	return &ProcessorFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateProcessor creates the configured generative processor
func (f *ProcessorFactory) CreateProcessor(ctx context.Context) (processor.Processor, error) {
	switch f.config.Processor.Provider {
	case "", "gemini":
		p, err := processor.NewGeminiProcessor(ctx, processor.GeminiConfig{
			APIKey:    f.config.Processor.GeminiAPIKey,
			ModelName: f.config.Processor.GeminiModel,
		}, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini processor: %w", err)
		}
		f.logger.Infof("gemini processor created (model %s)", f.config.Processor.GeminiModel)
		return p, nil

	case "openai":
		p := processor.NewOpenAIProcessor(processor.OpenAIConfig{
			APIKey:    f.config.Processor.OpenAIAPIKey,
			ModelName: f.config.Processor.OpenAIModel,
		}, f.logger)
		f.logger.Infof("openai processor created (model %s)", f.config.Processor.OpenAIModel)
		return p, nil

	default:
		return nil, fmt.Errorf("unknown processor provider %q", f.config.Processor.Provider)
	}
}

// CreateTranscriber creates the speech-to-text client
func (f *ProcessorFactory) CreateTranscriber(ctx context.Context) (stt.Transcriber, error) {
	if f.config.Processor.GeminiAPIKey == "" {
		return nil, fmt.Errorf("transcription requires a gemini api key")
	}
	client, err := sttgemini.New(ctx, sttgemini.Config{
		APIKey:    f.config.Processor.GeminiAPIKey,
		ModelName: f.config.Processor.GeminiModel,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}
	return client, nil
}
