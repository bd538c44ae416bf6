package interview

import (
	"encoding/json"
	"errors"
	"time"
)

// Common errors
var (
	ErrInterviewNotFound = errors.New("interview not found")
)

// Question is one prompt plus the model answer an interviewer would accept.
// Immutable once generated; member of an ordered set fixed per interview.
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Interview represents a mock interview record (pure domain model)
type Interview struct {
	MockID          string          `json:"mockId"`
	JobPosition     string          `json:"jobPosition"`
	JobDesc         string          `json:"jobDesc"`
	JobExperience   int             `json:"jobExperience"`
	QuestionPayload json.RawMessage `json:"questionPayload"`
	CreatedBy       string          `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Questions parses the stored payload into the ordered question list.
func (i *Interview) Questions() ([]Question, error) {
	return ParseQuestionPayload(i.QuestionPayload)
}

// CreateInterviewRequest is the data needed to create a new mock interview
type CreateInterviewRequest struct {
	JobPosition   string `json:"jobPosition" binding:"required,min=2,max=255"`
	JobDesc       string `json:"jobDesc" binding:"required,min=2"`
	JobExperience int    `json:"jobExperience" binding:"min=0,max=60"`
}

// InterviewResponse is the API shape of an interview record
type InterviewResponse struct {
	MockID        string     `json:"mockId"`
	JobPosition   string     `json:"jobPosition"`
	JobDesc       string     `json:"jobDesc"`
	JobExperience int        `json:"jobExperience"`
	Questions     []Question `json:"questions"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToResponse converts an Interview to its API shape. Parse failures surface
// as an empty question list; the session layer re-parses strictly.
func (i *Interview) ToResponse() InterviewResponse {
	questions, _ := i.Questions()
	return InterviewResponse{
		MockID:        i.MockID,
		JobPosition:   i.JobPosition,
		JobDesc:       i.JobDesc,
		JobExperience: i.JobExperience,
		Questions:     questions,
		CreatedBy:     i.CreatedBy,
		CreatedAt:     i.CreatedAt,
	}
}

// InterviewRepository defines the interface for interview data operations
type InterviewRepository interface {
	Create(interview *Interview) error
	GetByMockID(mockID string) (*Interview, error)
	ListByCreator(email string, offset, limit int) ([]Interview, int64, error)
	Delete(mockID string) error
}
