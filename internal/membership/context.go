// Package membership resolves who an actor is inside an organization.
//
// A Context is resolved once per request and passed explicitly to every
// permission check and service call, so all role decisions made while
// serving the request agree with each other.
package membership

import "serve-board.com/serve-board/pkg/constants"

// Context is the actor's standing in one organization.
type Context struct {
	OrgID  string
	UserID string
	// Role is empty when the actor holds no membership in the organization.
	Role   constants.ParishRole
	Active bool
	// GroupRoles holds the actor's active group memberships keyed by group id.
	GroupRoles map[string]constants.GroupRole
}

// System is the actor used by scheduled jobs such as the weekly rollover.
func System(orgID string) Context {
	return Context{OrgID: orgID, UserID: "system", Role: constants.RoleAdmin, Active: true}
}

// HasMembership reports whether the actor holds any membership, active or not.
func (c Context) HasMembership() bool {
	return c.Role != ""
}

func (c Context) IsActiveMember() bool {
	return c.HasMembership() && c.Active
}

// IsLeader reports whether the actor is an active admin or shepherd.
func (c Context) IsLeader() bool {
	return c.IsActiveMember() && c.Role.IsLeader()
}

// GroupRole returns the actor's role in groupID, if any.
func (c Context) GroupRole(groupID string) (constants.GroupRole, bool) {
	role, ok := c.GroupRoles[groupID]
	return role, ok
}

func (c Context) InGroup(groupID string) bool {
	_, ok := c.GroupRole(groupID)
	return ok
}

func (c Context) CoordinatesGroup(groupID string) bool {
	role, ok := c.GroupRole(groupID)
	return ok && role == constants.GroupCoordinator
}
