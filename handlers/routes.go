package handlers

import (
	"socialcare365/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the JSON API on e
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", HealthHandler)

	// Public routes (no authentication required)
	auth := e.Group("/api/auth")
	auth.POST("/register", RegisterHandler, middleware.RegisterRateLimiter.Middleware())
	auth.POST("/login", LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected routes
	api := e.Group("/api")
	api.Use(middleware.APIRateLimiter.Middleware(), middleware.RequireAuth())
	{
		api.GET("/auth/me", MeHandler)
		api.GET("/users", ListUsersHandler)

		// Cases
		api.GET("/cases", ListCasesHandler)
		api.POST("/cases", CreateCaseHandler)
		api.GET("/cases/export", ExportCasesHandler)
		api.GET("/cases/:id", GetCaseHandler)
		api.PUT("/cases/:id", UpdateCaseHandler)
		api.DELETE("/cases/:id", DeleteCaseHandler)
		api.PATCH("/cases/:id/archive", ArchiveCaseHandler)
		api.PATCH("/cases/:id/unarchive", UnarchiveCaseHandler)
		api.GET("/cases/:id/report", CaseReportHandler)

		// Case attachments
		api.POST("/cases/:id/upload", UploadAttachmentHandler)
		api.GET("/cases/:id/attachments/:filename", DownloadAttachmentHandler)
		api.DELETE("/cases/:id/attachments/:filename", DeleteAttachmentHandler)

		// Case comments
		api.GET("/cases/:id/comments", ListCaseCommentsHandler)
		api.POST("/cases/:id/comments", AddCaseCommentHandler)
		api.DELETE("/case-comments/:id", DeleteCaseCommentHandler)

		// Tasks
		api.GET("/tasks", ListTasksHandler)
		api.POST("/tasks", CreateTaskHandler)
		api.GET("/tasks/board", TaskBoardHandler)
		api.GET("/tasks/:id", GetTaskHandler)
		api.PUT("/tasks/:id", UpdateTaskHandler)
		api.DELETE("/tasks/:id", DeleteTaskHandler)
		api.GET("/tasks/:id/comments", ListTaskCommentsHandler)
		api.POST("/tasks/:id/comments", AddTaskCommentHandler)
		api.DELETE("/task-comments/:id", DeleteTaskCommentHandler)

		// Meetings
		api.GET("/meetings", ListMeetingsHandler)
		api.POST("/meetings", CreateMeetingHandler)
		api.GET("/meetings/case/:caseId", ListCaseMeetingsHandler)
		api.GET("/meetings/:id", GetMeetingHandler)
		api.PUT("/meetings/:id", UpdateMeetingHandler)
		api.DELETE("/meetings/:id", DeleteMeetingHandler)
		api.GET("/meetings/:id/ics", MeetingICSHandler)

		// Calendar
		api.GET("/calendar", CalendarEventsHandler)
	}
}
