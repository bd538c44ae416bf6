package interview

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"gorm.io/gorm"
)

// InterviewEntity represents the database entity for a mock interview
type InterviewEntity struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	MockID          string          `gorm:"uniqueIndex;type:char(36);not null;column:mock_id"`
	JobPosition     string          `gorm:"type:varchar(255);not null;column:job_position"`
	JobDesc         string          `gorm:"type:text;column:job_desc"`
	JobExperience   int             `gorm:"column:job_experience"`
	QuestionPayload json.RawMessage `gorm:"type:json;not null;column:question_payload"`
	CreatedBy       string          `gorm:"type:varchar(191);index;not null;column:created_by"`
	CreatedAt       time.Time       `gorm:"autoCreateTime(3)"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (InterviewEntity) TableName() string {
	return "mock_interviews"
}

// BeforeCreate is a GORM hook to ensure a mock ID is set
func (e *InterviewEntity) BeforeCreate(tx *gorm.DB) error {
	if e.MockID == "" {
		e.MockID = uuid.New().String()
	}
	return nil
}

// ToDomain converts InterviewEntity to a domain Interview
func (e *InterviewEntity) ToDomain() *interview.Interview {
	return &interview.Interview{
		MockID:          e.MockID,
		JobPosition:     e.JobPosition,
		JobDesc:         e.JobDesc,
		JobExperience:   e.JobExperience,
		QuestionPayload: e.QuestionPayload,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
	}
}

// FromDomain converts a domain Interview to InterviewEntity
func (e *InterviewEntity) FromDomain(d *interview.Interview) {
	e.MockID = d.MockID
	e.JobPosition = d.JobPosition
	e.JobDesc = d.JobDesc
	e.JobExperience = d.JobExperience
	e.QuestionPayload = d.QuestionPayload
	e.CreatedBy = d.CreatedBy
	e.CreatedAt = d.CreatedAt
}
