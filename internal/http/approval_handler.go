package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/http/validators"
)

func (h *Handler) ListPendingApprovals(c echo.Context) error {
	tasks, err := h.approvalService.ListPending(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) ApproveTask(c echo.Context) error {
	task, err := h.approvalService.Approve(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) RejectTask(c echo.Context) error {
	var req dto.RejectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.approvalService.Reject(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.Reason)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) Rollover(c echo.Context) error {
	var req dto.RolloverRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateRolloverRequest(&req); err != nil {
		return err
	}

	created, err := h.rolloverService.Rollover(c.Request().Context(), middleware.Actor(c), req.FromWeek, req.ToWeek)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from_week": req.FromWeek,
		"to_week":   req.ToWeek,
		"created":   created,
	})
}
