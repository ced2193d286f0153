package services

import (
	"context"
	"fmt"
	"time"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/permissions"
	repository "serve-board.com/serve-board/internal/repositories"
	model "serve-board.com/serve-board/pkg/models"
)

// engine is the state shared by every task service.
type engine struct {
	repos    *repository.Repositories
	dispatch *Dispatcher
	now      func() time.Time
}

func newEngine(repos *repository.Repositories, dispatch *Dispatcher) engine {
	if dispatch == nil {
		dispatch = NewDispatcher(nil, nil, nil)
	}
	return engine{
		repos:    repos,
		dispatch: dispatch,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// run executes fn in one transaction and dispatches the collected side
// effects once it has committed.
func (e engine) run(ctx context.Context, fn func(tx *repository.Repositories, fx *effects) error) error {
	fx := &effects{}
	err := e.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return fn(tx, fx)
	})
	if err != nil {
		return err
	}
	e.dispatch.flush(ctx, fx)
	return nil
}

// loadTask reads a task on behalf of actor. Tasks outside the actor's
// organization or visibility are reported as not found.
func loadTask(ctx context.Context, tx *repository.Repositories, actor membership.Context, taskID string, lock bool) (*model.Task, permissions.Capabilities, error) {
	if taskID == "" {
		return nil, permissions.Capabilities{}, apperrors.ErrTaskIDRequired
	}
	if !actor.HasMembership() {
		return nil, permissions.Capabilities{}, apperrors.ErrUnauthorized
	}

	var (
		task *model.Task
		err  error
	)
	if lock {
		task, err = tx.Tasks.FindByIDForUpdate(ctx, taskID)
	} else {
		task, err = tx.Tasks.FindByID(ctx, taskID)
	}
	if err != nil {
		return nil, permissions.Capabilities{}, err
	}
	if task.OrgID != actor.OrgID {
		return nil, permissions.Capabilities{}, apperrors.ErrTaskNotFound
	}

	joined, err := tx.Volunteers.IsJoined(ctx, task.ID, actor.UserID)
	if err != nil {
		return nil, permissions.Capabilities{}, err
	}

	caps := permissions.Resolve(task, actor, joined)
	if !caps.Visible {
		return nil, permissions.Capabilities{}, apperrors.ErrTaskNotFound
	}
	return task, caps, nil
}

func strPtr(s string) *string { return &s }

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// requireActiveMember rejects owner and coordinator ids that do not belong
// to an active member of orgID.
func requireActiveMember(ctx context.Context, members membership.Provider, orgID, userID string) error {
	if members == nil {
		return nil
	}
	m, err := members.GetMembership(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if m == nil || !m.Active {
		return apperrors.Validation(fmt.Sprintf("%s is not an active member", userID))
	}
	return nil
}
