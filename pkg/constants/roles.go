package constants

// ParishRole is an organization-level role.
type ParishRole string

const (
	RoleAdmin    ParishRole = "admin"
	RoleShepherd ParishRole = "shepherd"
	RoleMember   ParishRole = "member"
)

// IsLeader reports whether the role carries organization-wide management rights.
func (r ParishRole) IsLeader() bool {
	return r == RoleAdmin || r == RoleShepherd
}

func (r ParishRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleShepherd, RoleMember:
		return true
	}
	return false
}

// GroupRole is a role scoped to a single group.
type GroupRole string

const (
	GroupCoordinator GroupRole = "coordinator"
	GroupMember      GroupRole = "member"
)

func (r GroupRole) Valid() bool {
	return r == GroupCoordinator || r == GroupMember
}
