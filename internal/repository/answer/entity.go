package answer

import (
	"time"

	"github.com/xpanvictor/mockmate/internal/domains/answer"
)

// AnswerEntity represents the database entity for one scored answer
type AnswerEntity struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	MockID     string    `gorm:"type:char(36);index;not null;column:mock_id_ref"`
	Question   string    `gorm:"type:text;not null"`
	CorrectAns string    `gorm:"type:text;column:correct_ans"`
	UserAns    string    `gorm:"type:text;column:user_ans"`
	Feedback   string    `gorm:"type:text"`
	Rating     int       `gorm:"not null"`
	UserEmail  string    `gorm:"type:varchar(191);index;column:user_email"`
	CreatedAt  time.Time `gorm:"autoCreateTime(3)"`
}

// TableName returns the table name for GORM
func (AnswerEntity) TableName() string {
	return "user_answers"
}

// ToDomain converts AnswerEntity to a domain Record
func (e *AnswerEntity) ToDomain() *answer.Record {
	return &answer.Record{
		ID:         e.ID,
		MockID:     e.MockID,
		Question:   e.Question,
		CorrectAns: e.CorrectAns,
		UserAns:    e.UserAns,
		Feedback:   e.Feedback,
		Rating:     e.Rating,
		UserEmail:  e.UserEmail,
		CreatedAt:  e.CreatedAt,
	}
}

// FromDomain converts a domain Record to AnswerEntity
func (e *AnswerEntity) FromDomain(d *answer.Record) {
	e.ID = d.ID
	e.MockID = d.MockID
	e.Question = d.Question
	e.CorrectAns = d.CorrectAns
	e.UserAns = d.UserAns
	e.Feedback = d.Feedback
	e.Rating = d.Rating
	e.UserEmail = d.UserEmail
	e.CreatedAt = d.CreatedAt
}
