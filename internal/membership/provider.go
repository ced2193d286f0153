package membership

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// Membership is what the membership service knows about a user in an org.
type Membership struct {
	Role             constants.ParishRole
	Active           bool
	ActiveGroupRoles map[string]constants.GroupRole
}

// Provider looks up memberships. It returns (nil, nil) when the user has no
// membership in the organization.
type Provider interface {
	GetMembership(ctx context.Context, orgID, userID string) (*Membership, error)
}

// DBProvider reads memberships from the memberships and group_memberships tables.
type DBProvider struct {
	db *gorm.DB
}

func NewDBProvider(db *gorm.DB) *DBProvider {
	return &DBProvider{db: db}
}

func (p *DBProvider) GetMembership(ctx context.Context, orgID, userID string) (*Membership, error) {
	var m model.Membership
	err := p.db.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load membership: %w", err)
	}

	var groups []model.GroupMembership
	err = p.db.WithContext(ctx).
		Where("org_id = ? AND user_id = ? AND active = ?", orgID, userID, true).
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("load group memberships: %w", err)
	}

	roles := make(map[string]constants.GroupRole, len(groups))
	for _, g := range groups {
		roles[g.GroupID] = g.Role
	}

	return &Membership{
		Role:             m.Role,
		Active:           m.Active,
		ActiveGroupRoles: roles,
	}, nil
}
