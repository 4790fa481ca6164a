package handlers

import (
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/services"
	"time"

	"github.com/labstack/echo/v4"
)

// CalendarEventsHandler returns task due dates and meetings in [from, to)
func CalendarEventsHandler(c echo.Context) error {
	from, to, err := services.CalendarRange(c.QueryParam("from"), c.QueryParam("to"), time.Now())
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid calendar range: use YYYY-MM-DD or ISO 8601 dates with to after from")
	}

	events, err := services.ListCalendarEvents(db.DB, middleware.CurrentPrincipal(c), from, to)
	if err != nil {
		return respondError(c, err, "Event")
	}
	return c.JSON(http.StatusOK, events)
}
