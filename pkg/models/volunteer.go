package model

import "time"

// Volunteer is one user's seat in a task's pool.
type Volunteer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;uniqueIndex:idx_volunteers_task_user" json:"task_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_volunteers_task_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
