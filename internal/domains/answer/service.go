package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xpanvictor/mockmate/internal/constants/prompts"
	"github.com/xpanvictor/mockmate/internal/models/processor"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// Feedback generation errors
var (
	ErrFeedbackMalformed   = errors.New("answer: feedback reply did not match the expected shape")
	ErrFeedbackUnavailable = errors.New("answer: feedback service unavailable")
)

// Assessment is the structured verdict for one answered question.
type Assessment struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// scoringInput is the structured prompt body sent to the generative endpoint.
type scoringInput struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

// AnswerService defines the interface for answer business logic
type AnswerService interface {
	// GenerateFeedback is a single best-effort scoring attempt; callers
	// decide whether to resubmit on failure.
	GenerateFeedback(ctx context.Context, question, correctAnswer, userAnswer string) (*Assessment, error)
	// Save appends one finalized record.
	Save(ctx context.Context, record *Record) (uint, error)
	// ListByInterview returns all records for an interview plus the mean rating.
	ListByInterview(ctx context.Context, mockID string) ([]Record, float64, error)
}

type answerService struct {
	repository AnswerRepository
	processor  processor.Processor
	logger     *Logger.Logger
}

// GenerateFeedback implements AnswerService
func (s *answerService) GenerateFeedback(ctx context.Context, question, correctAnswer, userAnswer string) (*Assessment, error) {
	input := scoringInput{
		Question:      question,
		CorrectAnswer: correctAnswer,
		UserAnswer:    userAnswer,
	}

	var assessment Assessment
	err := s.processor.ProcessWithType(ctx, prompts.FeedbackInstruction, input, &assessment)
	if err != nil {
		if errors.Is(err, processor.ErrMalformedReply) || errors.Is(err, processor.ErrEmptyReply) {
			return nil, fmt.Errorf("%w: %v", ErrFeedbackMalformed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFeedbackUnavailable, err)
	}

	if assessment.Rating < 0 || assessment.Rating > 10 {
		return nil, fmt.Errorf("%w: rating %d out of range", ErrFeedbackMalformed, assessment.Rating)
	}
	return &assessment, nil
}

// Save implements AnswerService
func (s *answerService) Save(ctx context.Context, record *Record) (uint, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	id, err := s.repository.Save(record)
	if err != nil {
		s.logger.Errorf("error saving answer for %s: %v", record.MockID, err)
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	s.logger.Infof("answer recorded: interview=%s rating=%d record=%d", record.MockID, record.Rating, id)
	return id, nil
}

// ListByInterview implements AnswerService
func (s *answerService) ListByInterview(ctx context.Context, mockID string) ([]Record, float64, error) {
	records, err := s.repository.ListByInterview(mockID)
	if err != nil {
		s.logger.Errorf("error listing answers for %s: %v", mockID, err)
		return nil, 0, err
	}
	if len(records) == 0 {
		return nil, 0, ErrNoAnswers
	}

	total := 0
	for _, record := range records {
		total += record.Rating
	}
	return records, float64(total) / float64(len(records)), nil
}

// NewAnswerService creates a new answer service
func NewAnswerService(repository AnswerRepository, p processor.Processor, logger *Logger.Logger) AnswerService {
	return &answerService{
		repository: repository,
		processor:  p,
		logger:     logger,
	}
}
