package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/http/validators"
)

func (h *Handler) ListActivity(c echo.Context) error {
	activity, err := h.taskService.Activity(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(activity),
		"activity": activity,
	})
}

func (h *Handler) ListComments(c echo.Context) error {
	comments, err := h.taskService.Comments(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(comments),
		"comments": comments,
	})
}

func (h *Handler) AddComment(c echo.Context) error {
	var req dto.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCommentRequest(&req); err != nil {
		return err
	}

	comment, err := h.taskService.AddComment(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.Body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) DeleteComment(c echo.Context) error {
	if err := h.taskService.DeleteComment(c.Request().Context(), middleware.Actor(c), c.Param("id"), c.Param("commentID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTaskHours(c echo.Context) error {
	entries, err := h.taskService.Hours(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":       len(entries),
		"total_hours": total,
		"entries":     entries,
	})
}

func (h *Handler) UserHours(c echo.Context) error {
	userID := c.Param("userID")
	total, err := h.taskService.UserHoursTotal(c.Request().Context(), middleware.Actor(c), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     userID,
		"total_hours": total,
	})
}
