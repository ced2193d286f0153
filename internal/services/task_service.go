package services

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/permissions"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// TaskService creates tasks and serves the actor-filtered read side.
type TaskService struct {
	engine
	members membership.Provider
}

func NewTaskService(repos *repository.Repositories, members membership.Provider, dispatch *Dispatcher) *TaskService {
	return &TaskService{
		engine:  newEngine(repos, dispatch),
		members: members,
	}
}

type CreateTaskInput struct {
	WeekID           string               `json:"week_id"`
	GroupID          *string              `json:"group_id,omitempty"`
	Title            string               `json:"title"`
	Notes            string               `json:"notes"`
	EstimatedHours   *float64             `json:"estimated_hours,omitempty"`
	VolunteersNeeded int                  `json:"volunteers_needed"`
	Visibility       constants.Visibility `json:"visibility"`
	OpenToVolunteers bool                 `json:"open_to_volunteers"`
	OwnerID          *string              `json:"owner_id,omitempty"`
	CoordinatorID    *string              `json:"coordinator_id,omitempty"`
}

// TaskView is a task as seen by one actor.
type TaskView struct {
	Task           *model.Task              `json:"task"`
	Capabilities   permissions.Capabilities `json:"capabilities"`
	VolunteerCount int                      `json:"volunteer_count"`
	Joined         bool                     `json:"joined"`
}

func (in *CreateTaskInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperrors.Validation("title is required")
	}
	if strings.TrimSpace(in.WeekID) == "" {
		return apperrors.Validation("week_id is required")
	}
	if in.VolunteersNeeded == 0 {
		in.VolunteersNeeded = 1
	}
	if in.VolunteersNeeded < 1 {
		return apperrors.Validation("volunteers_needed must be at least 1")
	}
	if in.EstimatedHours != nil {
		h := *in.EstimatedHours
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return apperrors.Validation("estimated_hours must not be negative")
		}
	}
	if in.Visibility == "" {
		in.Visibility = constants.VisibilityPrivate
	}
	if in.Visibility != constants.VisibilityPrivate && in.Visibility != constants.VisibilityPublic {
		return apperrors.Validation("visibility must be PRIVATE or PUBLIC")
	}
	if in.GroupID != nil && *in.GroupID == "" {
		in.GroupID = nil
	}
	if in.OwnerID != nil && *in.OwnerID == "" {
		in.OwnerID = nil
	}
	if in.CoordinatorID != nil && *in.CoordinatorID == "" {
		in.CoordinatorID = nil
	}
	return nil
}

// initialApproval routes public tasks created by non-leaders through review.
func initialApproval(actor membership.Context, visibility constants.Visibility) constants.ApprovalStatus {
	if visibility == constants.VisibilityPublic && !actor.IsLeader() {
		return constants.ApprovalPending
	}
	return constants.ApprovalApproved
}

func (s *TaskService) CreateTask(ctx context.Context, actor membership.Context, in CreateTaskInput) (*model.Task, error) {
	if !actor.HasMembership() {
		return nil, apperrors.ErrUnauthorized
	}
	if !actor.IsActiveMember() {
		return nil, apperrors.ErrForbidden
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.GroupID != nil && !actor.IsLeader() && !actor.InGroup(*in.GroupID) {
		return nil, apperrors.ErrForbidden.WithMessage("only group members can create tasks for this group")
	}
	others := (in.OwnerID != nil && *in.OwnerID != actor.UserID) ||
		(in.CoordinatorID != nil && *in.CoordinatorID != actor.UserID)
	if others && !actor.IsLeader() && (in.GroupID == nil || !actor.CoordinatesGroup(*in.GroupID)) {
		return nil, apperrors.ErrForbidden.WithMessage("only leaders and coordinators can assign others")
	}
	for _, id := range []*string{in.OwnerID, in.CoordinatorID} {
		if id == nil {
			continue
		}
		if err := requireActiveMember(ctx, s.members, actor.OrgID, *id); err != nil {
			return nil, err
		}
	}

	task := &model.Task{
		ID:               uuid.NewString(),
		OrgID:            actor.OrgID,
		WeekID:           strings.TrimSpace(in.WeekID),
		GroupID:          in.GroupID,
		Title:            in.Title,
		Notes:            in.Notes,
		EstimatedHours:   in.EstimatedHours,
		VolunteersNeeded: in.VolunteersNeeded,
		Status:           constants.StatusOpen,
		Visibility:       in.Visibility,
		ApprovalStatus:   initialApproval(actor, in.Visibility),
		OpenToVolunteers: in.OpenToVolunteers,
		OwnerID:          in.OwnerID,
		CoordinatorID:    in.CoordinatorID,
		CreatedBy:        actor.UserID,
	}

	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		message := "created"
		if task.ApprovalStatus == constants.ApprovalPending {
			message = "created, awaiting approval"
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, "created", message); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.created", task.ID, map[string]any{
			"week_id":         task.WeekID,
			"visibility":      string(task.Visibility),
			"approval_status": string(task.ApprovalStatus),
		})
		fx.emit(queue.Event{
			Type:    queue.EventTaskCreated,
			OrgID:   task.OrgID,
			TaskID:  task.ID,
			ActorID: actor.UserID,
			UserID:  derefOr(task.OwnerID, ""),
			Attributes: map[string]string{
				"title":           task.Title,
				"approval_status": string(task.ApprovalStatus),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, actor membership.Context, id string) (*TaskView, error) {
	task, caps, err := loadTask(ctx, s.repos, actor, id, false)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.Volunteers.Count(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	joined, err := s.repos.Volunteers.IsJoined(ctx, task.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &TaskView{
		Task:           task,
		Capabilities:   caps,
		VolunteerCount: int(count),
		Joined:         joined,
	}, nil
}

// ListTasks returns the tasks of weekID the actor may see, each with the
// actor's capabilities. Archived tasks are left out unless asked for.
func (s *TaskService) ListTasks(ctx context.Context, actor membership.Context, weekID string, includeArchived bool) ([]TaskView, error) {
	if !actor.HasMembership() {
		return nil, apperrors.ErrUnauthorized
	}

	tasks, err := s.repos.Tasks.ListByWeek(ctx, actor.OrgID, weekID, includeArchived)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	joined, err := s.repos.Volunteers.JoinedTaskIDs(ctx, actor.UserID, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.repos.Volunteers.CountByTasks(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		caps := permissions.Resolve(task, actor, joined[task.ID])
		if !caps.Visible {
			continue
		}
		views = append(views, TaskView{
			Task:           task,
			Capabilities:   caps,
			VolunteerCount: counts[task.ID],
			Joined:         joined[task.ID],
		})
	}
	return views, nil
}

// DeleteTask soft-deletes a task. Its hours, activity and comments stay.
func (s *TaskService) DeleteTask(ctx context.Context, actor membership.Context, id string) error {
	return s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, id, true)
		if err != nil {
			return err
		}
		if !caps.CanDelete {
			return apperrors.ErrForbidden
		}
		if err := tx.Tasks.SoftDelete(ctx, task); err != nil {
			return err
		}
		if err := tx.Activities.Append(ctx, task.ID, actor.UserID, "deleted", "deleted"); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.deleted", task.ID, nil)
		return nil
	})
}

func (s *TaskService) Activity(ctx context.Context, actor membership.Context, id string) ([]model.Activity, error) {
	task, _, err := loadTask(ctx, s.repos, actor, id, false)
	if err != nil {
		return nil, err
	}
	return s.repos.Activities.ListByTask(ctx, task.ID)
}

func (s *TaskService) Hours(ctx context.Context, actor membership.Context, id string) ([]model.HoursEntry, error) {
	task, _, err := loadTask(ctx, s.repos, actor, id, false)
	if err != nil {
		return nil, err
	}
	return s.repos.Hours.ListByTask(ctx, task.ID)
}

// UserHoursTotal sums every hour credited to userID in the actor's
// organization. Members may read their own total; leaders anyone's.
func (s *TaskService) UserHoursTotal(ctx context.Context, actor membership.Context, userID string) (float64, error) {
	if !actor.HasMembership() {
		return 0, apperrors.ErrUnauthorized
	}
	if userID != actor.UserID && !actor.IsLeader() {
		return 0, apperrors.ErrForbidden
	}
	return s.repos.Hours.TotalForUser(ctx, actor.OrgID, userID)
}

func (s *TaskService) Comments(ctx context.Context, actor membership.Context, id string) ([]model.Comment, error) {
	task, _, err := loadTask(ctx, s.repos, actor, id, false)
	if err != nil {
		return nil, err
	}
	return s.repos.Comments.ListByTask(ctx, task.ID)
}

func (s *TaskService) AddComment(ctx context.Context, actor membership.Context, id, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.Validation("comment body is required")
	}

	var result *model.Comment
	err := s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, _, err := loadTask(ctx, tx, actor, id, false)
		if err != nil {
			return err
		}
		if !actor.IsActiveMember() {
			return apperrors.ErrForbidden
		}
		comment, err := tx.Comments.Create(ctx, task.ID, actor.UserID, body)
		if err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.comment_added", task.ID, map[string]any{"comment_id": comment.ID})
		result = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteComment hides a comment. Authors may delete their own; managers any.
func (s *TaskService) DeleteComment(ctx context.Context, actor membership.Context, id, commentID string) error {
	return s.run(ctx, func(tx *repository.Repositories, fx *effects) error {
		task, caps, err := loadTask(ctx, tx, actor, id, false)
		if err != nil {
			return err
		}
		comment, err := tx.Comments.FindByID(ctx, task.ID, commentID)
		if err != nil {
			return err
		}
		if comment.AuthorID != actor.UserID && !caps.CanManage {
			return apperrors.ErrForbidden
		}
		if err := tx.Comments.SoftDelete(ctx, comment.ID); err != nil {
			return err
		}
		fx.audit(actor.UserID, "task.comment_deleted", task.ID, map[string]any{"comment_id": comment.ID})
		return nil
	})
}
