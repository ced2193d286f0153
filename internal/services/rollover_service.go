package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// RolloverService carries unfinished tasks forward into the next week.
type RolloverService struct {
	engine
}

func NewRolloverService(repos *repository.Repositories, dispatch *Dispatcher) *RolloverService {
	return &RolloverService{engine: newEngine(repos, dispatch)}
}

// Rollover is RolloverOpenTasks on behalf of a leader.
func (s *RolloverService) Rollover(ctx context.Context, actor membership.Context, fromWeekID, toWeekID string) (int, error) {
	if err := requireLeader(actor); err != nil {
		return 0, err
	}
	return s.rollover(ctx, actor.OrgID, actor.UserID, fromWeekID, toWeekID)
}

// RolloverOpenTasks copies every OPEN or IN_PROGRESS task of fromWeekID into
// toWeekID and returns how many copies were created. Each copy points back
// at its source through RolledFromTaskID; a unique index on
// (rolled_from_task_id, week_id) makes repeated or overlapping runs create
// nothing new. Source tasks are not modified.
func (s *RolloverService) RolloverOpenTasks(ctx context.Context, orgID, fromWeekID, toWeekID string) (int, error) {
	return s.rollover(ctx, orgID, membership.System(orgID).UserID, fromWeekID, toWeekID)
}

func (s *RolloverService) rollover(ctx context.Context, orgID, actorID, fromWeekID, toWeekID string) (int, error) {
	fromWeekID = strings.TrimSpace(fromWeekID)
	toWeekID = strings.TrimSpace(toWeekID)
	if orgID == "" || fromWeekID == "" || toWeekID == "" {
		return 0, apperrors.Validation("organization, source week and target week are required")
	}
	if fromWeekID == toWeekID {
		return 0, apperrors.Validation("source and target week must differ")
	}

	created := 0
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		sources, err := tx.Tasks.ListOpen(ctx, orgID, fromWeekID)
		if err != nil {
			return err
		}

		for i := range sources {
			source := &sources[i]
			copyTask := carryForward(source, toWeekID)
			ok, err := tx.Tasks.CreateIfAbsent(ctx, copyTask)
			if err != nil {
				return fmt.Errorf("roll over task %s: %w", source.ID, err)
			}
			if !ok {
				continue
			}
			created++

			message := fmt.Sprintf("rolled over from %s (week %s)", source.ID, fromWeekID)
			if err := tx.Activities.Append(ctx, copyTask.ID, actorID, "rolled_over", message); err != nil {
				return err
			}
			fx.audit(actorID, "task.rolled_over", copyTask.ID, map[string]any{
				"source_task_id": source.ID,
				"from_week":      fromWeekID,
				"to_week":        toWeekID,
			})
		}

		if created > 0 {
			fx.emit(queue.Event{
				Type:    queue.EventTasksRolledOver,
				OrgID:   orgID,
				ActorID: actorID,
				Attributes: map[string]string{
					"from_week": fromWeekID,
					"to_week":   toWeekID,
					"created":   strconv.Itoa(created),
				},
			})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// carryForward builds the next week's copy of source. The copy starts OPEN
// with an empty pool.
func carryForward(source *model.Task, weekID string) *model.Task {
	return &model.Task{
		OrgID:            source.OrgID,
		WeekID:           weekID,
		GroupID:          source.GroupID,
		Title:            source.Title,
		Notes:            source.Notes,
		EstimatedHours:   source.EstimatedHours,
		VolunteersNeeded: source.VolunteersNeeded,
		Status:           constants.StatusOpen,
		Visibility:       source.Visibility,
		ApprovalStatus:   source.ApprovalStatus,
		OpenToVolunteers: source.OpenToVolunteers,
		OwnerID:          source.OwnerID,
		CoordinatorID:    source.CoordinatorID,
		CreatedBy:        source.CreatedBy,
		RolledFromTaskID: strPtr(source.ID),
	}
}
