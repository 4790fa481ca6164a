package handlers

import (
	"net/http"
	"socialcare365/db"
	"socialcare365/services"

	"github.com/labstack/echo/v4"
)

// ListUsersHandler returns the directory of active users, used to pick
// assigned social workers and attendees
func ListUsersHandler(c echo.Context) error {
	users, err := services.ListActiveUsers(db.DB)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(http.StatusOK, users)
}
