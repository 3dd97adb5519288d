package stats

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

type UserStatsRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.UserCacheRecord, error)
	Upsert(ctx context.Context, rec *domain.UserCacheRecord) error
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *userStatsRepo) FindByUsername(ctx context.Context, username string) (*domain.UserCacheRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var rows []domain.UserCacheRecord
	if err := r.db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find user stats %q: %w", username, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Upsert replaces every column of the stored row, so a negative entry clears
// previously cached statistics and vice versa.
func (r *userStatsRepo) Upsert(ctx context.Context, rec *domain.UserCacheRecord) error {
	if rec == nil || strings.TrimSpace(rec.Username) == "" {
		return fmt.Errorf("upsert user stats: username required")
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("upsert user stats %q: %w", rec.Username, err)
	}
	return nil
}
