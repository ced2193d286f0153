package services

import (
	"context"
	"errors"
	"testing"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/pkg/constants"
)

func TestApproval_PublicTaskFromMemberIsPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	leader := env.member(t, "leader", constants.RoleAdmin, nil)
	creator := env.member(t, "carla", constants.RoleMember, nil)
	other := env.member(t, "otto", constants.RoleMember, nil)

	task := env.createTask(t, creator, CreateTaskInput{Visibility: constants.VisibilityPublic, OpenToVolunteers: true})
	if task.ApprovalStatus != constants.ApprovalPending {
		t.Fatalf("expected pending approval, got %s", task.ApprovalStatus)
	}

	if _, err := env.tasks.GetTask(ctx, creator, task.ID); err != nil {
		t.Errorf("creator sees pending task: %v", err)
	}
	for _, actor := range []membership.Context{leader, other} {
		if _, err := env.tasks.GetTask(ctx, actor, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("%s: expected pending task hidden, got %v", actor.UserID, err)
		}
	}

	pending, err := env.approvals.ListPending(ctx, leader)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != task.ID {
		t.Fatalf("expected the task in the review queue, got %d tasks", len(pending))
	}
}

func TestApproval_LeaderTasksSkipReview(t *testing.T) {
	env := newTestEnv(t)
	leader := env.member(t, "shep", constants.RoleShepherd, nil)
	member := env.member(t, "mia", constants.RoleMember, nil)

	public := env.createTask(t, leader, CreateTaskInput{Visibility: constants.VisibilityPublic})
	if public.ApprovalStatus != constants.ApprovalApproved {
		t.Errorf("leader public task: expected approved, got %s", public.ApprovalStatus)
	}
	private := env.createTask(t, member, CreateTaskInput{})
	if private.ApprovalStatus != constants.ApprovalApproved {
		t.Errorf("member private task: expected approved, got %s", private.ApprovalStatus)
	}
}

func TestApproval_Approve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	leader := env.member(t, "leader", constants.RoleAdmin, nil)
	creator := env.member(t, "carla", constants.RoleMember, nil)
	other := env.member(t, "otto", constants.RoleMember, nil)
	task := env.createTask(t, creator, CreateTaskInput{Visibility: constants.VisibilityPublic, OpenToVolunteers: true})

	if _, err := env.approvals.Approve(ctx, other, task.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("member approving: expected forbidden, got %v", err)
	}

	approved, err := env.approvals.Approve(ctx, leader, task.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.ApprovalStatus != constants.ApprovalApproved {
		t.Fatalf("expected approved, got %s", approved.ApprovalStatus)
	}
	if _, err := env.tasks.GetTask(ctx, other, task.ID); err != nil {
		t.Errorf("approved task should be visible: %v", err)
	}
	if _, err := env.approvals.Approve(ctx, leader, task.ID); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Errorf("approving twice: expected invalid state, got %v", err)
	}

	env.publisher.mu.Lock()
	last := env.publisher.events[len(env.publisher.events)-1]
	env.publisher.mu.Unlock()
	if last.Type != "task.approved" || last.UserID != "carla" {
		t.Errorf("expected approval event for the creator, got %+v", last)
	}
}

func TestApproval_RejectKeepsTaskHidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	leader := env.member(t, "leader", constants.RoleAdmin, nil)
	creator := env.member(t, "carla", constants.RoleMember, nil)
	other := env.member(t, "otto", constants.RoleMember, nil)
	task := env.createTask(t, creator, CreateTaskInput{Visibility: constants.VisibilityPublic})

	rejected, err := env.approvals.Reject(ctx, leader, task.ID, "  duplicate of the pantry shift ")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.ApprovalStatus != constants.ApprovalRejected {
		t.Fatalf("expected rejected, got %s", rejected.ApprovalStatus)
	}
	if _, err := env.tasks.GetTask(ctx, other, task.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("rejected task should stay hidden, got %v", err)
	}

	activity, err := env.tasks.Activity(ctx, creator, task.ID)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	last := activity[len(activity)-1]
	if last.Action != "rejected" || last.Message != "rejected: duplicate of the pantry shift" {
		t.Errorf("unexpected activity %+v", last)
	}

	pending, err := env.approvals.ListPending(ctx, leader)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected empty review queue, got %d", len(pending))
	}
}

func TestApproval_RequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.member(t, "carla", constants.RoleMember, nil)
	task := env.createTask(t, creator, CreateTaskInput{Visibility: constants.VisibilityPublic})

	ghost := membership.Context{OrgID: testOrg, UserID: "ghost"}
	if _, err := env.approvals.Approve(ctx, ghost, task.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	foreign := membership.Context{OrgID: "parish-2", UserID: "admin-2", Role: constants.RoleAdmin, Active: true}
	if _, err := env.approvals.Approve(ctx, foreign, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("leader of another parish: expected not found, got %v", err)
	}
}
