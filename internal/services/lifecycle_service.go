package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/permissions"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// LifecycleService moves tasks through OPEN, IN_PROGRESS, DONE and ARCHIVED.
type LifecycleService struct {
	engine
}

func NewLifecycleService(repos *repository.Repositories, dispatch *Dispatcher) *LifecycleService {
	return &LifecycleService{engine: newEngine(repos, dispatch)}
}

// Completion is the result of completing a task.
type Completion struct {
	Task    *model.Task        `json:"task"`
	BatchID string             `json:"batch_id,omitempty"`
	Entries []model.HoursEntry `json:"entries"`
}

type transition struct {
	action    string
	event     string
	from      func(status constants.TaskStatus) bool
	authorize func(caps permissions.Capabilities) bool
	apply     func(ctx context.Context, tx *repository.Repositories, task *model.Task, now time.Time) error
	describe  func(task *model.Task) string
}

func (s *LifecycleService) Start(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint) (*model.Task, error) {
	return s.transition(ctx, actor, taskID, expectedVersion, transition{
		action: "started",
		event:  queue.EventTaskStarted,
		from:   func(st constants.TaskStatus) bool { return st == constants.StatusOpen },
		authorize: func(caps permissions.Capabilities) bool {
			return caps.CanManageStatus
		},
		apply: func(_ context.Context, _ *repository.Repositories, task *model.Task, now time.Time) error {
			task.Status = constants.StatusInProgress
			task.InProgressAt = &now
			return nil
		},
		describe: func(*model.Task) string { return "work started" },
	})
}

// Complete marks the task DONE and credits hours as req asks, all in the
// same transaction.
func (s *LifecycleService) Complete(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint, req HoursRequest) (*Completion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = constants.HoursSkip
	}

	result := &Completion{}
	task, err := s.transition(ctx, actor, taskID, expectedVersion, transition{
		action: "completed",
		event:  queue.EventTaskCompleted,
		from: func(st constants.TaskStatus) bool {
			return st == constants.StatusOpen || st == constants.StatusInProgress
		},
		authorize: func(caps permissions.Capabilities) bool {
			return caps.CanManageStatus
		},
		apply: func(ctx context.Context, tx *repository.Repositories, task *model.Task, now time.Time) error {
			task.Status = constants.StatusDone
			task.CompletedAt = &now
			task.CompletedBy = strPtr(actor.UserID)

			entries, err := s.creditHours(ctx, tx, task, actor.UserID, req, now)
			if err != nil {
				return err
			}
			result.Entries = entries
			if len(entries) > 0 {
				result.BatchID = entries[0].BatchID
			}
			return nil
		},
		describe: func(*model.Task) string {
			return fmt.Sprintf("completed, %d hours entries (%s)", len(result.Entries), req.Mode)
		},
	})
	if err != nil {
		return nil, err
	}
	result.Task = task
	if result.Entries == nil {
		result.Entries = []model.HoursEntry{}
	}
	return result, nil
}

// Reopen moves a DONE task back to OPEN. Hours credited by the earlier
// completion stay on record.
func (s *LifecycleService) Reopen(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint) (*model.Task, error) {
	return s.transition(ctx, actor, taskID, expectedVersion, transition{
		action: "reopened",
		event:  queue.EventTaskReopened,
		from:   func(st constants.TaskStatus) bool { return st == constants.StatusDone },
		authorize: func(caps permissions.Capabilities) bool {
			return caps.CanManageStatus
		},
		apply: func(_ context.Context, _ *repository.Repositories, task *model.Task, _ time.Time) error {
			task.Status = constants.StatusOpen
			task.CompletedAt = nil
			task.CompletedBy = nil
			return nil
		},
		describe: func(*model.Task) string { return "reopened" },
	})
}

func (s *LifecycleService) Archive(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint) (*model.Task, error) {
	return s.transition(ctx, actor, taskID, expectedVersion, transition{
		action: "archived",
		event:  queue.EventTaskArchived,
		from:   func(st constants.TaskStatus) bool { return st != constants.StatusArchived },
		authorize: func(caps permissions.Capabilities) bool {
			return caps.CanArchive
		},
		apply: func(_ context.Context, _ *repository.Repositories, task *model.Task, now time.Time) error {
			task.StatusBeforeArchive = task.Status
			task.Status = constants.StatusArchived
			task.ArchivedAt = &now
			return nil
		},
		describe: func(task *model.Task) string {
			return fmt.Sprintf("archived from %s", task.StatusBeforeArchive)
		},
	})
}

// Unarchive restores the status the task had when it was archived.
func (s *LifecycleService) Unarchive(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint) (*model.Task, error) {
	return s.transition(ctx, actor, taskID, expectedVersion, transition{
		action: "unarchived",
		event:  queue.EventTaskUnarchived,
		from:   func(st constants.TaskStatus) bool { return st == constants.StatusArchived },
		authorize: func(caps permissions.Capabilities) bool {
			return caps.CanArchive
		},
		apply: func(_ context.Context, _ *repository.Repositories, task *model.Task, _ time.Time) error {
			restored := task.StatusBeforeArchive
			if restored == "" || restored == constants.StatusArchived {
				restored = constants.StatusOpen
			}
			task.Status = restored
			task.StatusBeforeArchive = ""
			task.ArchivedAt = nil
			return nil
		},
		describe: func(task *model.Task) string {
			return fmt.Sprintf("restored to %s", task.Status)
		},
	})
}

func (s *LifecycleService) transition(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint, t transition) (*model.Task, error) {
	var result *model.Task
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, taskID, true)
		if err != nil {
			return err
		}
		if expectedVersion != 0 && task.Version != expectedVersion {
			return apperrors.ErrOptimisticLock
		}

		from := task.Status
		if from == constants.StatusArchived && t.action != "unarchived" {
			return apperrors.ErrTaskArchived
		}
		if !t.authorize(caps) {
			return apperrors.ErrForbidden
		}
		if !t.from(from) {
			return apperrors.ErrInvalidState.WithMessage(
				fmt.Sprintf("cannot mark a %s task as %s", from, t.action))
		}

		now := s.now()
		if err := t.apply(ctx, tx, task, now); err != nil {
			return err
		}
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, t.action, t.describe(task)); err != nil {
			return err
		}

		fx.audit(actor.UserID, "task."+t.action, task.ID, map[string]any{
			"from": string(from),
			"to":   string(task.Status),
		})
		fx.emit(queue.Event{
			Type:    t.event,
			OrgID:   task.OrgID,
			TaskID:  task.ID,
			ActorID: actor.UserID,
			UserID:  derefOr(task.OwnerID, ""),
			Attributes: map[string]string{
				"from":    string(from),
				"to":      string(task.Status),
				"title":   task.Title,
				"version": strconv.FormatUint(uint64(task.Version), 10),
			},
			OccurredAt: now,
		})

		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// creditHours writes one batch of hours entries for a single completion.
func (s *LifecycleService) creditHours(ctx context.Context, tx *repository.Repositories, task *model.Task, actorID string, req HoursRequest, now time.Time) ([]model.HoursEntry, error) {
	pool, err := tx.Volunteers.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	volunteers := make([]string, 0, len(pool))
	for _, v := range pool {
		volunteers = append(volunteers, v.UserID)
	}

	credits, err := planCredits(task, volunteers, actorID, req)
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return nil, nil
	}

	batchID := uuid.NewString()
	entries := make([]model.HoursEntry, 0, len(credits))
	for _, c := range credits {
		entries = append(entries, model.HoursEntry{
			ID:        uuid.NewString(),
			OrgID:     task.OrgID,
			TaskID:    task.ID,
			UserID:    c.UserID,
			BatchID:   batchID,
			Hours:     c.Hours,
			Mode:      req.Mode,
			CreatedBy: actorID,
			CreatedAt: now,
		})
	}
	if err := tx.Hours.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}
