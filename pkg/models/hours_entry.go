package model

import (
	"time"

	"serve-board.com/serve-board/pkg/constants"
)

// HoursEntry is an immutable credit of hours to one user for one completion
// of a task. All entries written by the same completion share a BatchID.
type HoursEntry struct {
	ID        string              `gorm:"primaryKey;size:36" json:"id"`
	OrgID     string              `gorm:"size:36;not null;index:idx_hours_org_user" json:"org_id"`
	TaskID    string              `gorm:"size:36;not null;index" json:"task_id"`
	UserID    string              `gorm:"size:36;not null;index:idx_hours_org_user" json:"user_id"`
	BatchID   string              `gorm:"size:36;not null;index" json:"batch_id"`
	Hours     float64             `gorm:"not null" json:"hours"`
	Mode      constants.HoursMode `gorm:"type:varchar(10);not null" json:"mode"`
	CreatedBy string              `gorm:"size:36;not null" json:"created_by"`
	CreatedAt time.Time           `json:"created_at"`
}
