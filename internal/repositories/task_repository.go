package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	task.Version = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	return r.db.WithContext(ctx).Create(task).Error
}

// CreateIfAbsent inserts task unless another row already occupies one of its
// unique keys. It reports whether a row was written.
func (r *TaskRepository) CreateIfAbsent(ctx context.Context, task *model.Task) (bool, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	task.Version = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(task)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDForUpdate loads the task holding a row lock until the surrounding
// transaction ends. Dialects without row locks ignore the clause.
func (r *TaskRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByWeek(ctx context.Context, orgID, weekID string, includeArchived bool) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if weekID != "" {
		query = query.Where("week_id = ?", weekID)
	}
	if !includeArchived {
		query = query.Where("status <> ?", constants.StatusArchived)
	}

	var tasks []model.Task
	err := query.Order("created_at asc").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListPendingApproval(ctx context.Context, orgID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND approval_status = ?", orgID, constants.ApprovalPending).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// ListOpen returns the tasks of a week that are still OPEN or IN_PROGRESS.
func (r *TaskRepository) ListOpen(ctx context.Context, orgID, weekID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND week_id = ? AND status IN ?", orgID, weekID,
			[]constants.TaskStatus{constants.StatusOpen, constants.StatusInProgress}).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// Update writes the mutable fields of task if nobody else changed it since it
// was read, and bumps its version.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"status":                task.Status,
			"approval_status":       task.ApprovalStatus,
			"open_to_volunteers":    task.OpenToVolunteers,
			"owner_id":              task.OwnerID,
			"coordinator_id":        task.CoordinatorID,
			"completed_by":          task.CompletedBy,
			"status_before_archive": task.StatusBeforeArchive,
			"in_progress_at":        task.InProgressAt,
			"completed_at":          task.CompletedAt,
			"archived_at":           task.ArchivedAt,
			"updated_at":            now,
			"version":               gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}

	task.Version++
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) SoftDelete(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).
		Where("version = ?", task.Version).
		Delete(&model.Task{}, "id = ?", task.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	return nil
}
