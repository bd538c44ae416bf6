package answer

import (
	"fmt"

	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"gorm.io/gorm"
)

type GormAnswerRepo struct {
	db *gorm.DB
}

// Save implements answer.AnswerRepository. Records are append-only; a
// re-recorded answer lands as an additional row for the same question.
func (g *GormAnswerRepo) Save(record *answer.Record) (uint, error) {
	entity := &AnswerEntity{}
	entity.FromDomain(record)
	entity.ID = 0

	if err := g.db.Create(entity).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", answer.ErrWriteFailure, err)
	}

	record.ID = entity.ID
	record.CreatedAt = entity.CreatedAt
	return entity.ID, nil
}

// ListByInterview implements answer.AnswerRepository
func (g *GormAnswerRepo) ListByInterview(mockID string) ([]answer.Record, error) {
	var entities []AnswerEntity
	if err := g.db.Where("mock_id_ref = ?", mockID).
		Order("created_at ASC").
		Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	records := make([]answer.Record, len(entities))
	for i, entity := range entities {
		records[i] = *entity.ToDomain()
	}
	return records, nil
}

// NewGormAnswerRepo creates a new GORM-based answer repository
func NewGormAnswerRepo(db *gorm.DB) answer.AnswerRepository {
	return &GormAnswerRepo{db: db}
}
