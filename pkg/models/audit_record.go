package model

import "time"

type AuditRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ActorID   string    `gorm:"size:36;not null;index" json:"actor_id"`
	Action    string    `gorm:"size:64;not null" json:"action"`
	TargetID  string    `gorm:"size:36;not null;index" json:"target_id"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
