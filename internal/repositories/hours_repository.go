package repository

import (
	"context"

	"gorm.io/gorm"

	model "serve-board.com/serve-board/pkg/models"
)

type HoursRepository struct {
	db *gorm.DB
}

func NewHoursRepository(db *gorm.DB) *HoursRepository {
	return &HoursRepository{db: db}
}

func (r *HoursRepository) CreateBatch(ctx context.Context, entries []model.HoursEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *HoursRepository) ListByTask(ctx context.Context, taskID string) ([]model.HoursEntry, error) {
	var entries []model.HoursEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&entries).Error
	return entries, err
}

func (r *HoursRepository) TotalForUser(ctx context.Context, orgID, userID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.HoursEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Scan(&total).Error
	return total, err
}
