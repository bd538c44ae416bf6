package database

import (
	answerRepo "github.com/xpanvictor/mockmate/internal/repository/answer"
	interviewRepo "github.com/xpanvictor/mockmate/internal/repository/interview"
	userRepo "github.com/xpanvictor/mockmate/internal/repository/user"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRepo.UserEntity{},
		&interviewRepo.InterviewEntity{},
		&answerRepo.AnswerEntity{},
	)
}
