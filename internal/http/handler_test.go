package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	config "serve-board.com/serve-board/internal/configs"
	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/membership"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/internal/services"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

var testSecret = []byte("test-secret")

type testServer struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()
	db := config.New(filepath.Join(t.TempDir(), "serve.db"))
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	repos := repository.New(db)
	provider := membership.NewDBProvider(db)
	dispatch := services.NewDispatcher(nil, nil, nil)
	h := NewHandler(Services{
		Tasks:     services.NewTaskService(repos, provider, dispatch),
		Lifecycle: services.NewLifecycleService(repos, dispatch),
		Pool:      services.NewPoolService(repos, provider, dispatch),
		Approvals: services.NewApprovalService(repos, dispatch),
		Rollover:  services.NewRolloverService(repos, dispatch),
	}, nil)

	e := echo.New()
	Register(e, h, membership.NewResolver(provider), testSecret, rateLimit)
	return &testServer{e: e, db: db}
}

func (s *testServer) addMember(t *testing.T, userID string, role constants.ParishRole) {
	t.Helper()
	err := s.db.Create(&model.Membership{ID: "m-" + userID, OrgID: "parish-1", UserID: userID, Role: role, Active: true}).Error
	if err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func (s *testServer) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != "" {
		token, err := middleware.IssueToken(testSecret, userID, jwt.RegisteredClaims{})
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func (s *testServer) createTask(t *testing.T, userID, body string) model.Task {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/orgs/parish-1/tasks", userID, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", rec.Code, rec.Body.String())
	}
	var task model.Task
	decode(t, rec, &task)
	return task
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)

	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks", "stranger", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("non-member: expected 401, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/orgs/parish-2/tasks", "leader", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("other organization: expected 401, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks", "leader", ""); rec.Code != http.StatusOK {
		t.Errorf("member: expected 200, got %d", rec.Code)
	}
}

func TestCreateAndGetTask(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)
	s.addMember(t, "mia", constants.RoleMember)

	task := s.createTask(t, "leader", `{"week_id":"2026-W42","title":"Ushers","visibility":"PUBLIC","open_to_volunteers":true}`)
	if task.Status != constants.StatusOpen || task.ApprovalStatus != constants.ApprovalApproved {
		t.Fatalf("unexpected task %+v", task)
	}

	rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks/"+task.ID, "mia", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d body %s", rec.Code, rec.Body.String())
	}
	var view struct {
		Task         model.Task      `json:"task"`
		Capabilities map[string]bool `json:"capabilities"`
	}
	decode(t, rec, &view)
	if view.Task.ID != task.ID {
		t.Errorf("unexpected task id %s", view.Task.ID)
	}
	if !view.Capabilities["can_assign_to_self"] || view.Capabilities["can_manage"] {
		t.Errorf("unexpected capabilities %v", view.Capabilities)
	}

	rec = s.do(t, http.MethodGet, "/orgs/parish-1/tasks?week=2026-W42", "mia", "")
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 {
		t.Errorf("expected 1 listed task, got %d", list.Count)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)

	cases := map[string]string{
		"missing title":  `{"week_id":"2026-W42"}`,
		"bad visibility": `{"week_id":"2026-W42","title":"x","visibility":"SECRET"}`,
		"invalid json":   `{"title":`,
	}
	for name, body := range cases {
		if rec := s.do(t, http.MethodPost, "/orgs/parish-1/tasks", "leader", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestHiddenTaskIsNotFound(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "mia", constants.RoleMember)
	s.addMember(t, "otto", constants.RoleMember)

	task := s.createTask(t, "mia", `{"week_id":"2026-W42","title":"Private errand"}`)
	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks/"+task.ID, "otto", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/orgs/parish-1/tasks/"+task.ID+"/start", "otto", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on mutation, got %d", rec.Code)
	}
}

func TestJoinUntilFull(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)
	for _, name := range []string{"ana", "ben", "cole"} {
		s.addMember(t, name, constants.RoleMember)
	}

	task := s.createTask(t, "leader", `{"week_id":"2026-W42","title":"Soup kitchen","visibility":"PUBLIC","open_to_volunteers":true,"volunteers_needed":2}`)
	path := "/orgs/parish-1/tasks/" + task.ID + "/volunteers"

	for _, name := range []string{"ana", "ben"} {
		if rec := s.do(t, http.MethodPost, path, name, ""); rec.Code != http.StatusCreated {
			t.Fatalf("join %s: status %d body %s", name, rec.Code, rec.Body.String())
		}
	}

	rec := s.do(t, http.MethodPost, path, "cole", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["message"] != "this opportunity is full" {
		t.Errorf("unexpected message %q", body["message"])
	}

	if rec := s.do(t, http.MethodDelete, path+"/ana", "ana", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("leave: status %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, path, "cole", ""); rec.Code != http.StatusCreated {
		t.Errorf("join after a seat freed: status %d", rec.Code)
	}
}

func TestCompleteWithManualHours(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)

	task := s.createTask(t, "leader", `{"week_id":"2026-W42","title":"Mow lawn","visibility":"PUBLIC"}`)
	base := "/orgs/parish-1/tasks/" + task.ID

	if rec := s.do(t, http.MethodPost, base+"/complete", "leader", `{"mode":"manual"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("manual without hours: expected 400, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, base+"/start", "leader", `{"expected_version":7}`); rec.Code != http.StatusConflict {
		t.Errorf("stale version: expected 409, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, base+"/complete", "leader", `{"mode":"manual","hours":1.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status %d body %s", rec.Code, rec.Body.String())
	}
	var completion struct {
		Task    model.Task         `json:"task"`
		Entries []model.HoursEntry `json:"entries"`
	}
	decode(t, rec, &completion)
	if completion.Task.Status != constants.StatusDone || len(completion.Entries) != 1 {
		t.Fatalf("unexpected completion %+v", completion)
	}

	rec = s.do(t, http.MethodGet, "/orgs/parish-1/users/leader/hours", "leader", "")
	var total struct {
		TotalHours float64 `json:"total_hours"`
	}
	decode(t, rec, &total)
	if total.TotalHours != 1.5 {
		t.Errorf("expected 1.5 hours, got %v", total.TotalHours)
	}
}

func TestApprovalEndpoints(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)
	s.addMember(t, "mia", constants.RoleMember)

	task := s.createTask(t, "mia", `{"week_id":"2026-W42","title":"Bake sale","visibility":"PUBLIC"}`)
	if task.ApprovalStatus != constants.ApprovalPending {
		t.Fatalf("expected pending, got %s", task.ApprovalStatus)
	}

	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/approvals", "mia", ""); rec.Code != http.StatusForbidden {
		t.Errorf("member listing approvals: expected 403, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/orgs/parish-1/approvals", "leader", "")
	var pending struct {
		Count int `json:"count"`
	}
	decode(t, rec, &pending)
	if pending.Count != 1 {
		t.Fatalf("expected 1 pending task, got %d", pending.Count)
	}

	if rec := s.do(t, http.MethodPost, "/orgs/parish-1/tasks/"+task.ID+"/reject", "leader", `{"reason":"duplicate"}`); rec.Code != http.StatusOK {
		t.Fatalf("reject: status %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/orgs/parish-1/tasks/"+task.ID+"/approve", "leader", ""); rec.Code != http.StatusConflict {
		t.Errorf("approving a rejected task: expected 409, got %d", rec.Code)
	}
}

func TestRolloverEndpoint(t *testing.T) {
	s := newTestServer(t, 100)
	s.addMember(t, "leader", constants.RoleAdmin)
	s.addMember(t, "mia", constants.RoleMember)
	s.createTask(t, "leader", `{"week_id":"2026-W42","title":"Greeters","visibility":"PUBLIC"}`)

	body := `{"from_week":"2026-W42","to_week":"2026-W43"}`
	if rec := s.do(t, http.MethodPost, "/orgs/parish-1/rollover", "mia", body); rec.Code != http.StatusForbidden {
		t.Errorf("member rollover: expected 403, got %d", rec.Code)
	}

	for _, want := range []int{1, 0} {
		rec := s.do(t, http.MethodPost, "/orgs/parish-1/rollover", "leader", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("rollover: status %d", rec.Code)
		}
		var out struct {
			Created int `json:"created"`
		}
		decode(t, rec, &out)
		if out.Created != want {
			t.Errorf("expected %d created, got %d", want, out.Created)
		}
	}
}

func TestRateLimitPerUser(t *testing.T) {
	s := newTestServer(t, 2)
	s.addMember(t, "leader", constants.RoleAdmin)
	s.addMember(t, "mia", constants.RoleMember)

	for i := 0; i < 2; i++ {
		if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks", "leader", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks", "leader", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/orgs/parish-1/tasks", "mia", ""); rec.Code != http.StatusOK {
		t.Errorf("other users keep their own budget, got %d", rec.Code)
	}
}
