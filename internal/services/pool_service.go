package services

import (
	"context"
	"fmt"
	"strconv"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/permissions"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	model "serve-board.com/serve-board/pkg/models"
)

// PoolService manages who works on a task: the single owner of a
// single-assignee task, or the capacity-bounded pool of a multi-volunteer
// task, plus the task's coordinator.
type PoolService struct {
	engine
	members membership.Provider
}

func NewPoolService(repos *repository.Repositories, members membership.Provider, dispatch *Dispatcher) *PoolService {
	return &PoolService{
		engine:  newEngine(repos, dispatch),
		members: members,
	}
}

// Assign sets the owner of a single-assignee task to target, or clears it
// when target is nil. Assigning overwrites the previous owner.
func (s *PoolService) Assign(ctx context.Context, actor membership.Context, taskID string, target *string) (*model.Task, error) {
	if target != nil && *target == "" {
		target = nil
	}
	if target != nil {
		if err := requireActiveMember(ctx, s.members, actor.OrgID, *target); err != nil {
			return nil, err
		}
	}

	return s.setOwner(ctx, actor, taskID, target, func(task *model.Task, caps permissions.Capabilities) bool {
		switch {
		case caps.CanAssignOthers:
			return true
		case target == nil:
			return task.IsOwner(actor.UserID) || caps.CanManage
		case *target == actor.UserID:
			return caps.CanAssignToSelf
		default:
			return false
		}
	})
}

// Claim makes the actor the owner of an unowned single-assignee task.
func (s *PoolService) Claim(ctx context.Context, actor membership.Context, taskID string) (*model.Task, error) {
	return s.setOwner(ctx, actor, taskID, strPtr(actor.UserID), func(_ *model.Task, caps permissions.Capabilities) bool {
		return caps.CanAssignToSelf
	})
}

func (s *PoolService) Unassign(ctx context.Context, actor membership.Context, taskID string) (*model.Task, error) {
	return s.Assign(ctx, actor, taskID, nil)
}

func (s *PoolService) setOwner(ctx context.Context, actor membership.Context, taskID string, target *string, allowed func(*model.Task, permissions.Capabilities) bool) (*model.Task, error) {
	var result *model.Task
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, taskID, true)
		if err != nil {
			return err
		}
		if task.IsArchived() {
			return apperrors.ErrTaskArchived
		}
		if task.IsMultiVolunteer() {
			return apperrors.ErrInvalidState.WithMessage("multi-volunteer tasks are staffed through the volunteer pool")
		}
		if !allowed(task, caps) {
			return apperrors.ErrForbidden
		}

		previous := derefOr(task.OwnerID, "")
		task.OwnerID = target
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}

		action, event, message := "assigned", queue.EventTaskAssigned, fmt.Sprintf("assigned to %s", derefOr(target, ""))
		if target == nil {
			action, event, message = "unassigned", queue.EventTaskUnassigned, fmt.Sprintf("%s unassigned", previous)
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, action, message); err != nil {
			return err
		}

		fx.audit(actor.UserID, "task."+action, task.ID, map[string]any{
			"previous_owner": previous,
			"owner":          derefOr(target, ""),
		})
		userID := derefOr(target, previous)
		fx.emit(queue.Event{
			Type:       event,
			OrgID:      task.OrgID,
			TaskID:     task.ID,
			ActorID:    actor.UserID,
			UserID:     userID,
			Attributes: map[string]string{"title": task.Title},
		})

		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Join takes a seat in a multi-volunteer task's pool. The capacity check and
// the insert happen atomically under a lock on the task row, so the pool
// never grows past VolunteersNeeded.
func (s *PoolService) Join(ctx context.Context, actor membership.Context, taskID string) (*model.Volunteer, error) {
	var result *model.Volunteer
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, taskID, true)
		if err != nil {
			return err
		}
		if task.IsArchived() {
			return apperrors.ErrTaskArchived
		}
		if !task.IsMultiVolunteer() {
			return apperrors.ErrInvalidState.WithMessage("single-assignee tasks are claimed, not joined")
		}
		if caps.CanLeave {
			return apperrors.ErrAlreadyVolunteered
		}
		if task.IsOwner(actor.UserID) {
			return apperrors.ErrInvalidState.WithMessage("the task lead does not take a volunteer seat")
		}
		if !caps.CanVolunteer {
			return apperrors.ErrForbidden
		}

		v, ok, err := tx.Volunteers.JoinWithinCapacity(ctx, task.ID, actor.UserID, task.VolunteersNeeded)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrPoolFull
		}

		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, "volunteer_joined", fmt.Sprintf("%s joined", actor.UserID)); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.volunteer_joined", task.ID, map[string]any{"user_id": actor.UserID})
		fx.emit(queue.Event{
			Type:    queue.EventVolunteerJoined,
			OrgID:   task.OrgID,
			TaskID:  task.ID,
			ActorID: actor.UserID,
			UserID:  derefOr(task.OwnerID, ""),
			Attributes: map[string]string{
				"title":     task.Title,
				"volunteer": actor.UserID,
				"capacity":  strconv.Itoa(task.VolunteersNeeded),
			},
		})

		result = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Leave removes userID from the pool. Anyone may leave on their own behalf;
// removing somebody else requires management rights on the task.
func (s *PoolService) Leave(ctx context.Context, actor membership.Context, taskID, userID string) error {
	if userID == "" {
		userID = actor.UserID
	}

	return s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, taskID, true)
		if err != nil {
			return err
		}
		if task.IsArchived() {
			return apperrors.ErrTaskArchived
		}
		if userID != actor.UserID && !caps.CanManage {
			return apperrors.ErrForbidden
		}

		removed, err := tx.Volunteers.Remove(ctx, task.ID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.ErrVolunteerNotFound
		}

		message := fmt.Sprintf("%s left", userID)
		if userID != actor.UserID {
			message = fmt.Sprintf("%s removed %s", actor.UserID, userID)
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, "volunteer_left", message); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.volunteer_left", task.ID, map[string]any{"user_id": userID})
		fx.emit(queue.Event{
			Type:       queue.EventVolunteerLeft,
			OrgID:      task.OrgID,
			TaskID:     task.ID,
			ActorID:    actor.UserID,
			UserID:     userID,
			Attributes: map[string]string{"title": task.Title},
		})
		return nil
	})
}

func (s *PoolService) ListVolunteers(ctx context.Context, actor membership.Context, taskID string) ([]model.Volunteer, error) {
	task, _, err := loadTask(ctx, s.repos, actor, taskID, false)
	if err != nil {
		return nil, err
	}
	return s.repos.Volunteers.ListByTask(ctx, task.ID)
}

// UpdateCoordinator sets or clears the task's coordinator. The coordinator
// never occupies a pool seat.
func (s *PoolService) UpdateCoordinator(ctx context.Context, actor membership.Context, taskID string, coordinator *string) (*model.Task, error) {
	if coordinator != nil && *coordinator == "" {
		coordinator = nil
	}
	if coordinator != nil {
		if err := requireActiveMember(ctx, s.members, actor.OrgID, *coordinator); err != nil {
			return nil, err
		}
	}

	var result *model.Task
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, taskID, true)
		if err != nil {
			return err
		}
		if task.IsArchived() {
			return apperrors.ErrTaskArchived
		}
		if !caps.CanManage {
			return apperrors.ErrForbidden
		}

		previous := derefOr(task.CoordinatorID, "")
		task.CoordinatorID = coordinator
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		message := fmt.Sprintf("coordinator set to %s", derefOr(coordinator, "nobody"))
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, "coordinator_changed", message); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.coordinator_changed", task.ID, map[string]any{
			"previous": previous,
			"current":  derefOr(coordinator, ""),
		})
		fx.emit(queue.Event{
			Type:       queue.EventCoordinatorChanged,
			OrgID:      task.OrgID,
			TaskID:     task.ID,
			ActorID:    actor.UserID,
			UserID:     derefOr(coordinator, ""),
			Attributes: map[string]string{"title": task.Title},
		})

		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetOpenToVolunteers changes who may sign up from now on. The current pool
// is left as it is.
func (s *PoolService) SetOpenToVolunteers(ctx context.Context, actor membership.Context, taskID string, open bool) (*model.Task, error) {
	var result *model.Task
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, taskID, true)
		if err != nil {
			return err
		}
		if task.IsArchived() {
			return apperrors.ErrTaskArchived
		}
		if !caps.CanSetOpen {
			return apperrors.ErrForbidden
		}

		task.OpenToVolunteers = open
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		message := "closed to volunteers"
		if open {
			message = "opened to volunteers"
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, "open_to_volunteers_changed", message); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.open_to_volunteers_changed", task.ID, map[string]any{"open": open})

		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
