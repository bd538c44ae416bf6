package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"gorm.io/gorm"
)

// GormInterviewRepo persists interviews in MySQL and keeps hot records in a
// Redis cache so session startup does not hit the database per connection.
type GormInterviewRepo struct {
	db       *gorm.DB
	rc       *redis.Client
	cacheTTL time.Duration
}

func mockCacheKey(mockID string) string {
	return fmt.Sprintf("interview:%s", mockID)
}

// Create implements interview.InterviewRepository
func (g *GormInterviewRepo) Create(d *interview.Interview) error {
	entity := &InterviewEntity{}
	entity.FromDomain(d)
	if err := g.db.Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}

	*d = *entity.ToDomain()
	g.cache(d)
	return nil
}

// GetByMockID implements interview.InterviewRepository
func (g *GormInterviewRepo) GetByMockID(mockID string) (*interview.Interview, error) {
	if cached := g.cached(mockID); cached != nil {
		return cached, nil
	}

	var entity InterviewEntity
	if err := g.db.Where("mock_id = ?", mockID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interview.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	d := entity.ToDomain()
	g.cache(d)
	return d, nil
}

// ListByCreator implements interview.InterviewRepository
func (g *GormInterviewRepo) ListByCreator(email string, offset, limit int) ([]interview.Interview, int64, error) {
	var total int64
	if err := g.db.Model(&InterviewEntity{}).Where("created_by = ?", email).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count interviews: %w", err)
	}

	var entities []InterviewEntity
	if err := g.db.Where("created_by = ?", email).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list interviews: %w", err)
	}

	interviews := make([]interview.Interview, len(entities))
	for i, entity := range entities {
		interviews[i] = *entity.ToDomain()
	}
	return interviews, total, nil
}

// Delete implements interview.InterviewRepository
func (g *GormInterviewRepo) Delete(mockID string) error {
	result := g.db.Where("mock_id = ?", mockID).Delete(&InterviewEntity{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return interview.ErrInterviewNotFound
	}
	if g.rc != nil {
		g.rc.Del(mockCacheKey(mockID))
	}
	return nil
}

// cache is best effort; a cache write failure never fails the request.
func (g *GormInterviewRepo) cache(d *interview.Interview) {
	if g.rc == nil {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	g.rc.Set(mockCacheKey(d.MockID), data, g.cacheTTL)
}

func (g *GormInterviewRepo) cached(mockID string) *interview.Interview {
	if g.rc == nil {
		return nil
	}
	raw, err := g.rc.Get(mockCacheKey(mockID)).Result()
	if err != nil {
		return nil
	}
	var d interview.Interview
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil
	}
	return &d
}

// NewGormInterviewRepo creates a new GORM-based interview repository. The
// Redis client may be nil to disable caching.
func NewGormInterviewRepo(db *gorm.DB, rc *redis.Client, cacheTTL time.Duration) interview.InterviewRepository {
	return &GormInterviewRepo{db: db, rc: rc, cacheTTL: cacheTTL}
}
