package model

import (
	"time"

	"gorm.io/gorm"
)

type Activity struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	ActorID   string    `gorm:"size:36;not null" json:"actor_id"`
	Action    string    `gorm:"size:64;not null" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string         `gorm:"size:36;not null;index" json:"task_id"`
	AuthorID  string         `gorm:"size:36;not null" json:"author_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
