package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "serve-board.com/serve-board/pkg/models"
)

type VolunteerRepository struct {
	db *gorm.DB
}

func NewVolunteerRepository(db *gorm.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// JoinWithinCapacity adds userID to the pool of taskID only while the pool
// holds fewer than capacity seats and the user is not already in it. The
// check and the insert are a single statement.
func (r *VolunteerRepository) JoinWithinCapacity(ctx context.Context, taskID, userID string, capacity int) (*model.Volunteer, bool, error) {
	v := &model.Volunteer{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO volunteers (id, task_id, user_id, created_at)
		SELECT ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM volunteers WHERE task_id = ?) < ?
		  AND NOT EXISTS (SELECT 1 FROM volunteers WHERE task_id = ? AND user_id = ?)`,
		v.ID, v.TaskID, v.UserID, v.CreatedAt,
		taskID, capacity,
		taskID, userID,
	)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return v, true, nil
}

func (r *VolunteerRepository) Remove(ctx context.Context, taskID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Volunteer{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *VolunteerRepository) IsJoined(ctx context.Context, taskID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *VolunteerRepository) Count(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}

// ListByTask returns the pool in join order.
func (r *VolunteerRepository) ListByTask(ctx context.Context, taskID string) ([]model.Volunteer, error) {
	var volunteers []model.Volunteer
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&volunteers).Error
	return volunteers, err
}

// JoinedTaskIDs returns which of taskIDs userID volunteers for.
func (r *VolunteerRepository) JoinedTaskIDs(ctx context.Context, userID string, taskIDs []string) (map[string]bool, error) {
	joined := make(map[string]bool)
	if len(taskIDs) == 0 {
		return joined, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Where("user_id = ? AND task_id IN ?", userID, taskIDs).
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		joined[id] = true
	}
	return joined, nil
}

// CountByTasks returns pool sizes keyed by task id.
func (r *VolunteerRepository) CountByTasks(ctx context.Context, taskIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID string
		Total  int
	}
	err := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Select("task_id, COUNT(*) AS total").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TaskID] = row.Total
	}
	return counts, nil
}
