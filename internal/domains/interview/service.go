package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/mockmate/internal/constants/prompts"
	"github.com/xpanvictor/mockmate/internal/models/processor"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// ErrGenerationFailed means the generative endpoint produced no usable
// question set for a new interview.
var ErrGenerationFailed = errors.New("interview: question generation failed")

// InterviewService defines the interface for interview business logic
type InterviewService interface {
	Create(ctx context.Context, creatorEmail string, req CreateInterviewRequest) (*InterviewResponse, error)
	Get(ctx context.Context, mockID string) (*InterviewResponse, error)
	// GetRecord returns the stored domain record with its raw payload,
	// for callers that parse questions strictly themselves.
	GetRecord(ctx context.Context, mockID string) (*Interview, error)
	Questions(ctx context.Context, mockID string) ([]Question, error)
	ListByCreator(ctx context.Context, email string, offset, limit int) ([]InterviewResponse, int64, error)
	Delete(ctx context.Context, mockID string) error
}

type interviewService struct {
	repository    InterviewRepository
	processor     processor.Processor
	logger        *Logger.Logger
	questionCount int
}

// generatedSet is the reply shape expected from the question generator.
type generatedSet struct {
	Questions []Question `json:"questions"`
}

// Create implements InterviewService. Question generation is one best-effort
// request; the payload is validated before anything is stored.
func (s *interviewService) Create(ctx context.Context, creatorEmail string, req CreateInterviewRequest) (*InterviewResponse, error) {
	instruction := prompts.QuestionGeneration(req.JobPosition, req.JobDesc, req.JobExperience, s.questionCount)

	var set generatedSet
	if err := s.processor.ProcessWithType(ctx, instruction, req, &set); err != nil {
		s.logger.Errorf("question generation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	payload, err := json.Marshal(generatedSet{Questions: set.Questions})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if _, err := ParseQuestionPayload(payload); err != nil {
		s.logger.Errorf("generated payload failed validation: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	record := &Interview{
		MockID:          uuid.New().String(),
		JobPosition:     req.JobPosition,
		JobDesc:         req.JobDesc,
		JobExperience:   req.JobExperience,
		QuestionPayload: payload,
		CreatedBy:       creatorEmail,
		CreatedAt:       time.Now(),
	}

	if err := s.repository.Create(record); err != nil {
		s.logger.Errorf("error creating interview: %v", err)
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	s.logger.Infof("interview created: %s (%s, %d questions)", record.MockID, record.JobPosition, len(set.Questions))
	response := record.ToResponse()
	return &response, nil
}

// Get implements InterviewService
func (s *interviewService) Get(ctx context.Context, mockID string) (*InterviewResponse, error) {
	record, err := s.repository.GetByMockID(mockID)
	if err != nil {
		return nil, err
	}
	response := record.ToResponse()
	return &response, nil
}

// GetRecord implements InterviewService
func (s *interviewService) GetRecord(ctx context.Context, mockID string) (*Interview, error) {
	return s.repository.GetByMockID(mockID)
}

// Questions implements InterviewService. Parse failures propagate so the
// session layer can refuse entry on a broken payload.
func (s *interviewService) Questions(ctx context.Context, mockID string) ([]Question, error) {
	record, err := s.repository.GetByMockID(mockID)
	if err != nil {
		return nil, err
	}
	return record.Questions()
}

// ListByCreator implements InterviewService
func (s *interviewService) ListByCreator(ctx context.Context, email string, offset, limit int) ([]InterviewResponse, int64, error) {
	records, total, err := s.repository.ListByCreator(email, offset, limit)
	if err != nil {
		s.logger.Errorf("error listing interviews: %v", err)
		return nil, 0, err
	}

	responses := make([]InterviewResponse, len(records))
	for i, record := range records {
		responses[i] = record.ToResponse()
	}
	return responses, total, nil
}

// Delete implements InterviewService
func (s *interviewService) Delete(ctx context.Context, mockID string) error {
	if err := s.repository.Delete(mockID); err != nil {
		s.logger.Errorf("error deleting interview: %v", err)
		return err
	}
	s.logger.Infof("interview deleted: %s", mockID)
	return nil
}

// NewInterviewService creates a new interview service
func NewInterviewService(repository InterviewRepository, p processor.Processor, logger *Logger.Logger, questionCount int) InterviewService {
	if questionCount <= 0 {
		questionCount = 5
	}
	return &interviewService{
		repository:    repository,
		processor:     p,
		logger:        logger,
		questionCount: questionCount,
	}
}
