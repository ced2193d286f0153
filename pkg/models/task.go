package model

import (
	"time"

	"gorm.io/gorm"

	"serve-board.com/serve-board/pkg/constants"
)

type Task struct {
	ID                  string                   `gorm:"primaryKey;size:36" json:"id"`
	OrgID               string                   `gorm:"size:36;not null;index:idx_tasks_org_week" json:"org_id"`
	WeekID              string                   `gorm:"size:64;not null;index:idx_tasks_org_week;uniqueIndex:idx_tasks_rollover" json:"week_id"`
	GroupID             *string                  `gorm:"size:36;index" json:"group_id,omitempty"`
	Title               string                   `gorm:"not null" json:"title"`
	Notes               string                   `gorm:"type:text" json:"notes"`
	EstimatedHours      *float64                 `json:"estimated_hours,omitempty"`
	VolunteersNeeded    int                      `gorm:"not null;default:1" json:"volunteers_needed"`
	Status              constants.TaskStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Visibility          constants.Visibility     `gorm:"type:varchar(10);not null" json:"visibility"`
	ApprovalStatus      constants.ApprovalStatus `gorm:"type:varchar(10);not null;index" json:"approval_status"`
	OpenToVolunteers    bool                     `gorm:"not null;default:false" json:"open_to_volunteers"`
	OwnerID             *string                  `gorm:"size:36;index" json:"owner_id,omitempty"`
	CoordinatorID       *string                  `gorm:"size:36" json:"coordinator_id,omitempty"`
	CreatedBy           string                   `gorm:"size:36;not null" json:"created_by"`
	CompletedBy         *string                  `gorm:"size:36" json:"completed_by,omitempty"`
	RolledFromTaskID    *string                  `gorm:"size:36;uniqueIndex:idx_tasks_rollover" json:"rolled_from_task_id,omitempty"`
	StatusBeforeArchive constants.TaskStatus     `gorm:"type:varchar(20)" json:"-"`
	Version             uint                     `gorm:"not null;default:1" json:"version"`
	InProgressAt        *time.Time               `json:"in_progress_at,omitempty"`
	CompletedAt         *time.Time               `json:"completed_at,omitempty"`
	ArchivedAt          *time.Time               `json:"archived_at,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	DeletedAt           gorm.DeletedAt           `gorm:"index" json:"-"`
}

// IsMultiVolunteer reports whether the task uses the volunteer pool model.
// An owner on such a task is a lead and does not occupy a pool slot.
func (t *Task) IsMultiVolunteer() bool {
	return t.VolunteersNeeded > 1
}

func (t *Task) IsArchived() bool {
	return t.Status == constants.StatusArchived
}

func (t *Task) IsOwner(userID string) bool {
	return t.OwnerID != nil && *t.OwnerID == userID
}

func (t *Task) IsCreator(userID string) bool {
	return t.CreatedBy == userID
}

func (t *Task) IsCoordinator(userID string) bool {
	return t.CoordinatorID != nil && *t.CoordinatorID == userID
}
