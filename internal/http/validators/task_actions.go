package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "serve-board.com/serve-board/internal/data_models"
	"serve-board.com/serve-board/pkg/constants"
)

func ValidateCompleteTaskRequest(r *dto.CompleteTaskRequest) error {
	mode := constants.HoursMode(r.Mode)
	if mode != "" && !mode.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be estimated, manual or skip")
	}
	if mode == constants.HoursManual && r.Hours == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hours are required in manual mode")
	}
	return nil
}

func ValidateUserRequest(r *dto.UserRequest, required bool) error {
	if required && (r.UserID == nil || *r.UserID == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	return nil
}

func ValidateOpenToVolunteersRequest(r *dto.OpenToVolunteersRequest) error {
	if r.Open == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "open is required")
	}
	return nil
}

func ValidateCommentRequest(r *dto.CommentRequest) error {
	if r.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "body is required")
	}
	return nil
}

func ValidateRolloverRequest(r *dto.RolloverRequest) error {
	if r.FromWeek == "" || r.ToWeek == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "from_week and to_week are required")
	}
	if r.FromWeek == r.ToWeek {
		return echo.NewHTTPError(http.StatusBadRequest, "from_week and to_week must differ")
	}
	return nil
}
