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

type DailyProblemRepo interface {
	FindByDayKey(ctx context.Context, dayKey string) (*domain.DailyProblemRecord, error)
	Upsert(ctx context.Context, rec *domain.DailyProblemRecord) error
}

type dailyProblemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyProblemRepo(db *gorm.DB, baseLog *logger.Logger) DailyProblemRepo {
	return &dailyProblemRepo{db: db, log: baseLog.With("repo", "DailyProblemRepo")}
}

func (r *dailyProblemRepo) FindByDayKey(ctx context.Context, dayKey string) (*domain.DailyProblemRecord, error) {
	dayKey = strings.TrimSpace(dayKey)
	if dayKey == "" {
		return nil, nil
	}
	var rows []domain.DailyProblemRecord
	if err := r.db.WithContext(ctx).Where("day_key = ?", dayKey).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find daily problem %s: %w", dayKey, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *dailyProblemRepo) Upsert(ctx context.Context, rec *domain.DailyProblemRecord) error {
	if rec == nil || strings.TrimSpace(rec.DayKey) == "" {
		return fmt.Errorf("upsert daily problem: day key required")
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day_key"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("upsert daily problem %s: %w", rec.DayKey, err)
	}
	return nil
}
