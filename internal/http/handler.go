package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	apperrors "serve-board.com/serve-board/internal/errors"
	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/http/validators"
	"serve-board.com/serve-board/internal/services"
	"serve-board.com/serve-board/pkg/constants"
)

type Handler struct {
	taskService      *services.TaskService
	lifecycleService *services.LifecycleService
	poolService      *services.PoolService
	approvalService  *services.ApprovalService
	rolloverService  *services.RolloverService
	logger           *slog.Logger
}

type Services struct {
	Tasks     *services.TaskService
	Lifecycle *services.LifecycleService
	Pool      *services.PoolService
	Approvals *services.ApprovalService
	Rollover  *services.RolloverService
}

func NewHandler(s Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		taskService:      s.Tasks,
		lifecycleService: s.Lifecycle,
		poolService:      s.Pool,
		approvalService:  s.Approvals,
		rolloverService:  s.Rollover,
		logger:           logger,
	}
}

// fail turns a service error into an HTTP error. Errors without a known
// kind are logged and hidden behind a 500.
func (h *Handler) fail(c echo.Context, err error) error {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
	}

	h.logger.Error("request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.Any("err", err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return nil
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), middleware.Actor(c), services.CreateTaskInput{
		WeekID:           req.WeekID,
		GroupID:          req.GroupID,
		Title:            req.Title,
		Notes:            req.Notes,
		EstimatedHours:   req.EstimatedHours,
		VolunteersNeeded: req.VolunteersNeeded,
		Visibility:       constants.Visibility(req.Visibility),
		OpenToVolunteers: req.OpenToVolunteers,
		OwnerID:          req.OwnerID,
		CoordinatorID:    req.CoordinatorID,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	view, err := h.taskService.GetTask(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ListTasks(c echo.Context) error {
	includeArchived, _ := strconv.ParseBool(c.QueryParam("archived"))

	views, err := h.taskService.ListTasks(c.Request().Context(), middleware.Actor(c), c.QueryParam("week"), includeArchived)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(views),
		"tasks": views,
	})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), middleware.Actor(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
