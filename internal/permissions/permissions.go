// Package permissions derives what an actor may do with a task.
//
// Resolve is a pure function of the task snapshot and the actor's membership
// context. Visibility is decided first; an invisible task yields no
// capabilities and must be reported to the caller as not found.
package permissions

import (
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

type Capabilities struct {
	Visible         bool `json:"-"`
	CanManage       bool `json:"can_manage"`
	CanDelete       bool `json:"can_delete"`
	CanArchive      bool `json:"can_archive"`
	CanManageStatus bool `json:"can_manage_status"`
	CanStartWork    bool `json:"can_start_work"`
	CanAssignToSelf bool `json:"can_assign_to_self"`
	CanAssignOthers bool `json:"can_assign_others"`
	CanVolunteer    bool `json:"can_volunteer"`
	CanLeave        bool `json:"can_leave"`
	CanSetOpen      bool `json:"can_set_open"`
}

// subject is the actor seen from one particular task.
type subject struct {
	userID           string
	member           bool
	activeMember     bool
	leader           bool
	owner            bool
	creator          bool
	coordinator      bool
	groupCoordinator bool
	groupMember      bool
	joined           bool
}

func newSubject(task *model.Task, actor membership.Context, joined bool) subject {
	s := subject{
		userID:       actor.UserID,
		member:       actor.HasMembership(),
		activeMember: actor.IsActiveMember(),
		leader:       actor.IsLeader(),
		owner:        task.IsOwner(actor.UserID),
		creator:      task.IsCreator(actor.UserID),
		groupMember:  true,
		joined:       joined,
	}
	if task.GroupID != nil {
		s.groupMember = actor.InGroup(*task.GroupID)
		s.groupCoordinator = actor.CoordinatesGroup(*task.GroupID)
	}
	s.coordinator = task.IsCoordinator(actor.UserID) || s.groupCoordinator
	return s
}

// Visible reports whether the task may be shown to the actor at all.
func Visible(task *model.Task, actor membership.Context) bool {
	return sameOrg(task, actor) && visible(task, newSubject(task, actor, false))
}

func sameOrg(task *model.Task, actor membership.Context) bool {
	return actor.OrgID != "" && actor.OrgID == task.OrgID
}

func visible(task *model.Task, s subject) bool {
	if s.owner || s.creator {
		return true
	}
	if task.Visibility != constants.VisibilityPublic {
		return false
	}
	if task.ApprovalStatus != constants.ApprovalApproved {
		return false
	}
	return task.GroupID == nil || s.groupMember || s.leader
}

// Resolve computes the capability set of actor on task. joined tells whether
// the actor currently holds a seat in the task's volunteer pool.
func Resolve(task *model.Task, actor membership.Context, joined bool) Capabilities {
	if !sameOrg(task, actor) {
		return Capabilities{}
	}
	s := newSubject(task, actor, joined)
	if !visible(task, s) {
		return Capabilities{}
	}

	caps := Capabilities{
		Visible:         true,
		CanManage:       canManage(task, s),
		CanDelete:       s.leader || s.creator,
		CanArchive:      s.leader || s.creator,
		CanManageStatus: canManageStatus(task, s),
		CanAssignToSelf: canAssignToSelf(task, s),
		CanAssignOthers: canAssignOthers(task, s),
		CanVolunteer:    canVolunteer(task, s),
		CanLeave:        s.joined && !task.IsArchived(),
		CanSetOpen:      s.leader || s.coordinator,
	}
	caps.CanStartWork = caps.CanManageStatus && task.Status == constants.StatusOpen
	return caps
}

func isPublicApproved(task *model.Task) bool {
	return task.Visibility == constants.VisibilityPublic && task.ApprovalStatus == constants.ApprovalApproved
}

func canManage(task *model.Task, s subject) bool {
	if s.leader || s.coordinator || s.owner || s.creator {
		return true
	}
	return task.GroupID != nil && isPublicApproved(task) && s.groupCoordinator
}

func canManageStatus(task *model.Task, s subject) bool {
	if task.IsArchived() {
		return false
	}
	if s.leader || s.coordinator {
		return true
	}
	if task.Visibility == constants.VisibilityPrivate {
		return s.creator
	}
	if task.IsMultiVolunteer() {
		return s.owner || (s.joined && task.OpenToVolunteers)
	}
	return s.owner
}

func canAssignToSelf(task *model.Task, s subject) bool {
	return s.activeMember &&
		isPublicApproved(task) &&
		task.Status == constants.StatusOpen &&
		!task.IsMultiVolunteer() &&
		task.OwnerID == nil &&
		s.groupMember &&
		(task.OpenToVolunteers || s.leader || s.coordinator)
}

func canAssignOthers(task *model.Task, s subject) bool {
	return s.member &&
		task.Visibility == constants.VisibilityPublic &&
		(s.leader || s.coordinator || s.groupCoordinator)
}

func canVolunteer(task *model.Task, s subject) bool {
	return s.member &&
		isPublicApproved(task) &&
		task.Status != constants.StatusDone &&
		!task.IsArchived() &&
		task.IsMultiVolunteer() &&
		s.groupMember &&
		(task.OpenToVolunteers || s.leader || s.coordinator)
}
