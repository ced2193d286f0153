package membership

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// Fixture is the YAML file accepted by the seed command:
//
//	orgs:
//	  - id: parish-1
//	    members:
//	      - user: olivia
//	        role: admin
//	        groups:
//	          choir: coordinator
//	      - user: victor
//	        role: member
//	        active: false
type Fixture struct {
	Orgs []FixtureOrg `yaml:"orgs"`
}

type FixtureOrg struct {
	ID      string          `yaml:"id"`
	Members []FixtureMember `yaml:"members"`
}

type FixtureMember struct {
	User string               `yaml:"user"`
	Role constants.ParishRole `yaml:"role"`
	// Active defaults to true.
	Active *bool                          `yaml:"active"`
	Groups map[string]constants.GroupRole `yaml:"groups"`
}

// LoadFixture decodes and checks a fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	for _, org := range f.Orgs {
		if org.ID == "" {
			return nil, fmt.Errorf("fixture org without id")
		}
		for _, m := range org.Members {
			if m.User == "" {
				return nil, fmt.Errorf("org %s: member without user", org.ID)
			}
			if !m.Role.Valid() {
				return nil, fmt.Errorf("org %s: user %s: unknown role %q", org.ID, m.User, m.Role)
			}
			for group, role := range m.Groups {
				if !role.Valid() {
					return nil, fmt.Errorf("org %s: user %s: unknown role %q in group %s", org.ID, m.User, role, group)
				}
			}
		}
	}
	return &f, nil
}

// Apply upserts every membership of the fixture and reports how many member
// rows it wrote. Rows missing from the fixture are left alone.
func (f *Fixture) Apply(ctx context.Context, db *gorm.DB) (int, error) {
	written := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, org := range f.Orgs {
			for _, m := range org.Members {
				active := m.Active == nil || *m.Active
				if err := upsertMembership(tx, org.ID, m.User, m.Role, active); err != nil {
					return err
				}
				for group, role := range m.Groups {
					if err := upsertGroupMembership(tx, org.ID, group, m.User, role); err != nil {
						return err
					}
				}
				written++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func upsertMembership(tx *gorm.DB, orgID, userID string, role constants.ParishRole, active bool) error {
	now := time.Now().UTC()
	row := &model.Membership{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		UserID:    userID,
		Role:      role,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("seed membership %s/%s: %w", orgID, userID, err)
	}

	// A false bool is a zero value that gorm replaces by the column default
	// on insert, so the flag is written separately.
	err = tx.Model(&model.Membership{}).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Update("active", active).Error
	if err != nil {
		return fmt.Errorf("seed membership %s/%s: %w", orgID, userID, err)
	}
	return nil
}

func upsertGroupMembership(tx *gorm.DB, orgID, groupID, userID string, role constants.GroupRole) error {
	now := time.Now().UTC()
	row := &model.GroupMembership{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "active", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("seed group membership %s/%s: %w", groupID, userID, err)
	}
	return nil
}
