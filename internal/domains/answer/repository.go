package answer

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrWriteFailure = errors.New("answer: write to durable storage failed")
	ErrNoAnswers    = errors.New("answer: no answers recorded for interview")
)

// Record is the durable unit combining question, reference answer, user
// answer and AI feedback. Append-only; re-recording a question appends a new
// row rather than overwriting the previous one.
type Record struct {
	ID         uint      `json:"id"`
	MockID     string    `json:"mockId"`
	Question   string    `json:"question"`
	CorrectAns string    `json:"correctAns"`
	UserAns    string    `json:"userAns"`
	Feedback   string    `json:"feedback"`
	Rating     int       `json:"rating"`
	UserEmail  string    `json:"userEmail"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AnswerRepository defines the interface for answer data operations
type AnswerRepository interface {
	// Save appends one record and returns its assigned ID.
	Save(record *Record) (uint, error)
	// ListByInterview returns all records for a mock interview, oldest first.
	ListByInterview(mockID string) ([]Record, error)
}
