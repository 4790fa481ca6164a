package handlers

import (
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/models"
	"socialcare365/services"

	"github.com/labstack/echo/v4"
)

// BoardResponse is the Kanban view of the caller's tasks
type BoardResponse struct {
	Columns []string       `json:"columns"`
	Tasks   services.Board `json:"tasks"`
	Counts  map[string]int `json:"counts"`
}

// ListTasksHandler returns tasks, optionally filtered by status or case
func ListTasksHandler(c echo.Context) error {
	tasks, err := services.ListTasks(db.DB, middleware.CurrentPrincipal(c), services.TaskFilter{
		Status: c.QueryParam("status"),
		CaseID: c.QueryParam("caseId"),
	})
	if err != nil {
		return respondError(c, err, "Task")
	}
	return c.JSON(http.StatusOK, tasks)
}

// TaskBoardHandler returns the caller's tasks grouped into Kanban columns
func TaskBoardHandler(c echo.Context) error {
	tasks, err := services.ListTasks(db.DB, middleware.CurrentPrincipal(c), services.TaskFilter{
		CaseID: c.QueryParam("caseId"),
	})
	if err != nil {
		return respondError(c, err, "Task")
	}

	board := services.BuildBoard(tasks)
	return c.JSON(http.StatusOK, BoardResponse{
		Columns: models.TaskStatuses,
		Tasks:   board,
		Counts:  board.Counts(),
	})
}

// CreateTaskHandler creates a task owned by the current user
func CreateTaskHandler(c echo.Context) error {
	var input services.TaskInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	task, err := services.CreateTask(db.DB, middleware.CurrentPrincipal(c), &input)
	if err != nil {
		return respondError(c, err, "Task")
	}
	return c.JSON(http.StatusCreated, task)
}

// GetTaskHandler returns one task
func GetTaskHandler(c echo.Context) error {
	task, err := services.GetTask(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Task")
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTaskHandler applies a partial update; a Kanban drop sends only {status}
func UpdateTaskHandler(c echo.Context) error {
	var input services.TaskInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	task, err := services.UpdateTask(db.DB, middleware.CurrentPrincipal(c), c.Param("id"), &input)
	if err != nil {
		return respondError(c, err, "Task")
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler removes a task
func DeleteTaskHandler(c echo.Context) error {
	if err := services.DeleteTask(db.DB, middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
		return respondError(c, err, "Task")
	}
	return message(c, http.StatusOK, "Task deleted")
}
