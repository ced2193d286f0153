package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "serve-board.com/serve-board/internal/http/middlewares"
	"serve-board.com/serve-board/internal/membership"
)

// Register mounts the API. Every route is scoped to one organization and
// requires a bearer token whose subject holds a membership in it.
func Register(e *echo.Echo, h *Handler, resolver *membership.Resolver, jwtSecret []byte, rateLimitPerMinute int) {
	org := e.Group("/orgs/:orgID",
		middleware.Authenticate(jwtSecret),
		middleware.RateLimiter(rateLimitPerMinute, time.Minute),
		middleware.ResolveMembership(resolver),
	)

	org.POST("/tasks", h.CreateTask)
	org.GET("/tasks", h.ListTasks)
	org.GET("/tasks/:id", h.GetTask)
	org.DELETE("/tasks/:id", h.DeleteTask)

	org.POST("/tasks/:id/start", h.StartTask)
	org.POST("/tasks/:id/complete", h.CompleteTask)
	org.POST("/tasks/:id/reopen", h.ReopenTask)
	org.POST("/tasks/:id/archive", h.ArchiveTask)
	org.POST("/tasks/:id/unarchive", h.UnarchiveTask)

	org.PUT("/tasks/:id/owner", h.AssignOwner)
	org.DELETE("/tasks/:id/owner", h.UnassignOwner)
	org.POST("/tasks/:id/claim", h.ClaimTask)
	org.GET("/tasks/:id/volunteers", h.ListVolunteers)
	org.POST("/tasks/:id/volunteers", h.JoinTask)
	org.DELETE("/tasks/:id/volunteers/:userID", h.LeaveTask)
	org.PUT("/tasks/:id/coordinator", h.UpdateCoordinator)
	org.PUT("/tasks/:id/open-to-volunteers", h.SetOpenToVolunteers)

	org.GET("/approvals", h.ListPendingApprovals)
	org.POST("/tasks/:id/approve", h.ApproveTask)
	org.POST("/tasks/:id/reject", h.RejectTask)

	org.GET("/tasks/:id/activity", h.ListActivity)
	org.GET("/tasks/:id/comments", h.ListComments)
	org.POST("/tasks/:id/comments", h.AddComment)
	org.DELETE("/tasks/:id/comments/:commentID", h.DeleteComment)
	org.GET("/tasks/:id/hours", h.ListTaskHours)
	org.GET("/users/:userID/hours", h.UserHours)

	org.POST("/rollover", h.Rollover)
}
