package handlers

import (
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/services"

	"github.com/labstack/echo/v4"
)

// CommentRequest is the body of a new comment
type CommentRequest struct {
	Text string `json:"text"`
}

// ListCaseCommentsHandler returns the comments on a case
func ListCaseCommentsHandler(c echo.Context) error {
	comments, err := services.ListCaseComments(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusOK, comments)
}

// AddCaseCommentHandler posts a comment on a case
func AddCaseCommentHandler(c echo.Context) error {
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	comment, err := services.AddCaseComment(db.DB, middleware.GetCurrentUser(c), c.Param("id"), req.Text)
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusCreated, comment)
}

// DeleteCaseCommentHandler removes the caller's own case comment
func DeleteCaseCommentHandler(c echo.Context) error {
	if err := services.DeleteCaseComment(db.DB, middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
		return respondError(c, err, "Comment")
	}
	return message(c, http.StatusOK, "Comment deleted")
}

// ListTaskCommentsHandler returns the comments on a task
func ListTaskCommentsHandler(c echo.Context) error {
	comments, err := services.ListTaskComments(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Task")
	}
	return c.JSON(http.StatusOK, comments)
}

// AddTaskCommentHandler posts a comment on a task
func AddTaskCommentHandler(c echo.Context) error {
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	comment, err := services.AddTaskComment(db.DB, middleware.GetCurrentUser(c), c.Param("id"), req.Text)
	if err != nil {
		return respondError(c, err, "Task")
	}
	return c.JSON(http.StatusCreated, comment)
}

// DeleteTaskCommentHandler removes the caller's own task comment
func DeleteTaskCommentHandler(c echo.Context) error {
	if err := services.DeleteTaskComment(db.DB, middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
		return respondError(c, err, "Comment")
	}
	return message(c, http.StatusOK, "Comment deleted")
}
