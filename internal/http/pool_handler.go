package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/http/validators"
)

func (h *Handler) AssignOwner(c echo.Context) error {
	var req dto.UserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateUserRequest(&req, true); err != nil {
		return err
	}

	task, err := h.poolService.Assign(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ClaimTask(c echo.Context) error {
	task, err := h.poolService.Claim(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UnassignOwner(c echo.Context) error {
	task, err := h.poolService.Unassign(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListVolunteers(c echo.Context) error {
	volunteers, err := h.poolService.ListVolunteers(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":      len(volunteers),
		"volunteers": volunteers,
	})
}

func (h *Handler) JoinTask(c echo.Context) error {
	volunteer, err := h.poolService.Join(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, volunteer)
}

func (h *Handler) LeaveTask(c echo.Context) error {
	if err := h.poolService.Leave(c.Request().Context(), middleware.Actor(c), c.Param("id"), c.Param("userID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateCoordinator(c echo.Context) error {
	var req dto.UserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.poolService.UpdateCoordinator(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) SetOpenToVolunteers(c echo.Context) error {
	var req dto.OpenToVolunteersRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateOpenToVolunteersRequest(&req); err != nil {
		return err
	}

	task, err := h.poolService.SetOpenToVolunteers(c.Request().Context(), middleware.Actor(c), c.Param("id"), *req.Open)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}
