package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"serve-board.com/serve-board/internal/audit"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

const testOrg = "parish-1"

// recordingPublisher keeps published events in memory for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingSink struct {
	mu      sync.Mutex
	records []audit.Record
	err     error
}

func (s *recordingSink) Record(_ context.Context, rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Action)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	repos     *repository.Repositories
	publisher *recordingPublisher
	sink      *recordingSink
	resolver  *membership.Resolver
	tasks     *TaskService
	lifecycle *LifecycleService
	pool      *PoolService
	approvals *ApprovalService
	rollover  *RolloverService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "serve.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Task{},
		&model.Volunteer{},
		&model.HoursEntry{},
		&model.Activity{},
		&model.Comment{},
		&model.Membership{},
		&model.GroupMembership{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	repos := repository.New(db)
	publisher := &recordingPublisher{}
	sink := &recordingSink{}
	dispatch := NewDispatcher(publisher, sink, nil)
	provider := membership.NewDBProvider(db)

	return &testEnv{
		db:        db,
		repos:     repos,
		publisher: publisher,
		sink:      sink,
		resolver:  membership.NewResolver(provider),
		tasks:     NewTaskService(repos, provider, dispatch),
		lifecycle: NewLifecycleService(repos, dispatch),
		pool:      NewPoolService(repos, provider, dispatch),
		approvals: NewApprovalService(repos, dispatch),
		rollover:  NewRolloverService(repos, dispatch),
	}
}

// member registers userID in the test organization and returns the
// resolved context. groups maps group ids to roles.
func (e *testEnv) member(t *testing.T, userID string, role constants.ParishRole, groups map[string]constants.GroupRole) membership.Context {
	t.Helper()
	ctx := context.Background()

	err := e.db.Create(&model.Membership{ID: "m-" + userID, OrgID: testOrg, UserID: userID, Role: role, Active: true}).Error
	if err != nil {
		t.Fatalf("create membership: %v", err)
	}
	for groupID, groupRole := range groups {
		err := e.db.Create(&model.GroupMembership{
			ID:      "g-" + groupID + "-" + userID,
			OrgID:   testOrg,
			GroupID: groupID,
			UserID:  userID,
			Role:    groupRole,
			Active:  true,
		}).Error
		if err != nil {
			t.Fatalf("create group membership: %v", err)
		}
	}

	actor, err := e.resolver.Resolve(ctx, testOrg, userID)
	if err != nil {
		t.Fatalf("resolve %s: %v", userID, err)
	}
	return actor
}

func (e *testEnv) createTask(t *testing.T, actor membership.Context, in CreateTaskInput) *model.Task {
	t.Helper()
	if in.WeekID == "" {
		in.WeekID = "2026-W42"
	}
	if in.Title == "" {
		in.Title = "Serve at the food pantry"
	}
	task, err := e.tasks.CreateTask(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func (e *testEnv) reload(t *testing.T, id string) *model.Task {
	t.Helper()
	task, err := e.repos.Tasks.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload task %s: %v", id, err)
	}
	return task
}

func floatPtr(f float64) *float64 { return &f }
