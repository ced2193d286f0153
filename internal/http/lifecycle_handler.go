package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/http/validators"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/services"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

type transitionFunc func(ctx context.Context, actor membership.Context, taskID string, expectedVersion uint) (*model.Task, error)

func (h *Handler) transition(fn transitionFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.TransitionRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		task, err := fn(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.ExpectedVersion)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func (h *Handler) StartTask(c echo.Context) error {
	return h.transition(h.lifecycleService.Start)(c)
}

func (h *Handler) ReopenTask(c echo.Context) error {
	return h.transition(h.lifecycleService.Reopen)(c)
}

func (h *Handler) ArchiveTask(c echo.Context) error {
	return h.transition(h.lifecycleService.Archive)(c)
}

func (h *Handler) UnarchiveTask(c echo.Context) error {
	return h.transition(h.lifecycleService.Unarchive)(c)
}

func (h *Handler) CompleteTask(c echo.Context) error {
	var req dto.CompleteTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCompleteTaskRequest(&req); err != nil {
		return err
	}

	completion, err := h.lifecycleService.Complete(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.ExpectedVersion, services.HoursRequest{
		Mode:     constants.HoursMode(req.Mode),
		Hours:    req.Hours,
		CreditTo: req.CreditTo,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, completion)
}
