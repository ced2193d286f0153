package queue

import (
	"context"
	"time"
)

const (
	EventTaskCreated        = "task.created"
	EventTaskAssigned       = "task.assigned"
	EventTaskUnassigned     = "task.unassigned"
	EventTaskStarted        = "task.started"
	EventTaskCompleted      = "task.completed"
	EventTaskReopened       = "task.reopened"
	EventTaskArchived       = "task.archived"
	EventTaskUnarchived     = "task.unarchived"
	EventVolunteerJoined    = "task.volunteer_joined"
	EventVolunteerLeft      = "task.volunteer_left"
	EventCoordinatorChanged = "task.coordinator_changed"
	EventTaskApproved       = "task.approved"
	EventTaskRejected       = "task.rejected"
	EventTasksRolledOver    = "tasks.rolled_over"
)

// Event is a domain event handed to the external notification dispatcher.
type Event struct {
	Type       string            `json:"type"`
	OrgID      string            `json:"org_id"`
	TaskID     string            `json:"task_id,omitempty"`
	ActorID    string            `json:"actor_id"`
	UserID     string            `json:"user_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher hands events to the notification dispatcher. Delivery is
// fire-and-forget from the engine's point of view.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when Redis is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
