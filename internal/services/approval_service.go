package services

import (
	"context"
	"strings"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// ApprovalService lets leaders review public tasks proposed by members.
// Pending tasks are hidden from everyone but their creator and owner, so
// review reads them without the visibility filter after checking leadership.
type ApprovalService struct {
	engine
}

func NewApprovalService(repos *repository.Repositories, dispatch *Dispatcher) *ApprovalService {
	return &ApprovalService{engine: newEngine(repos, dispatch)}
}

func (s *ApprovalService) ListPending(ctx context.Context, actor membership.Context) ([]model.Task, error) {
	if err := requireLeader(actor); err != nil {
		return nil, err
	}
	return s.repos.Tasks.ListPendingApproval(ctx, actor.OrgID)
}

func (s *ApprovalService) Approve(ctx context.Context, actor membership.Context, taskID string) (*model.Task, error) {
	return s.decide(ctx, actor, taskID, constants.ApprovalApproved, "")
}

// Reject turns the task down for good; reason is recorded on the activity.
func (s *ApprovalService) Reject(ctx context.Context, actor membership.Context, taskID, reason string) (*model.Task, error) {
	return s.decide(ctx, actor, taskID, constants.ApprovalRejected, strings.TrimSpace(reason))
}

func (s *ApprovalService) decide(ctx context.Context, actor membership.Context, taskID string, decision constants.ApprovalStatus, reason string) (*model.Task, error) {
	if taskID == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	if err := requireLeader(actor); err != nil {
		return nil, err
	}

	var result *model.Task
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, err := tx.Tasks.FindByIDForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.OrgID != actor.OrgID {
			return apperrors.ErrTaskNotFound
		}
		if task.ApprovalStatus != constants.ApprovalPending {
			return apperrors.ErrInvalidState.WithMessage("task is not awaiting approval")
		}

		task.ApprovalStatus = decision
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}

		action, event, message := "approved", queue.EventTaskApproved, "approved"
		if decision == constants.ApprovalRejected {
			action, event, message = "rejected", queue.EventTaskRejected, "rejected"
			if reason != "" {
				message = "rejected: " + reason
			}
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, action, message); err != nil {
			return err
		}

		metadata := map[string]any{}
		if reason != "" {
			metadata["reason"] = reason
		}
		fx.audit(actor.UserID, "task."+action, task.ID, metadata)
		attrs := map[string]string{"title": task.Title}
		if reason != "" {
			attrs["reason"] = reason
		}
		fx.emit(queue.Event{
			Type:       event,
			OrgID:      task.OrgID,
			TaskID:     task.ID,
			ActorID:    actor.UserID,
			UserID:     task.CreatedBy,
			Attributes: attrs,
		})

		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func requireLeader(actor membership.Context) error {
	if !actor.HasMembership() {
		return apperrors.ErrUnauthorized
	}
	if !actor.IsLeader() {
		return apperrors.ErrForbidden
	}
	return nil
}
