package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	"serve-board.com/serve-board/pkg/constants"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.WeekID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "week_id is required")
	}
	if r.VolunteersNeeded < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "volunteers_needed must not be negative")
	}
	if r.EstimatedHours != nil && *r.EstimatedHours < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "estimated_hours must not be negative")
	}
	switch constants.Visibility(r.Visibility) {
	case "", constants.VisibilityPrivate, constants.VisibilityPublic:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "visibility must be PRIVATE or PUBLIC")
	}
	return nil
}
