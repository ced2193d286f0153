package model

import (
	"time"

	"serve-board.com/serve-board/pkg/constants"
)

// Membership is the parish-level role of a user. One row per (org, user).
type Membership struct {
	ID        string               `gorm:"primaryKey;size:36" json:"id"`
	OrgID     string               `gorm:"size:36;not null;uniqueIndex:idx_memberships_org_user" json:"org_id"`
	UserID    string               `gorm:"size:36;not null;uniqueIndex:idx_memberships_org_user" json:"user_id"`
	Role      constants.ParishRole `gorm:"type:varchar(20);not null" json:"role"`
	Active    bool                 `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// GroupMembership is one row per (group, user); role is a scalar.
type GroupMembership struct {
	ID        string              `gorm:"primaryKey;size:36" json:"id"`
	OrgID     string              `gorm:"size:36;not null;index" json:"org_id"`
	GroupID   string              `gorm:"size:36;not null;uniqueIndex:idx_group_memberships_group_user" json:"group_id"`
	UserID    string              `gorm:"size:36;not null;uniqueIndex:idx_group_memberships_group_user" json:"user_id"`
	Role      constants.GroupRole `gorm:"type:varchar(20);not null" json:"role"`
	Active    bool                `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
