package handlers

import (
	"fmt"
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/services"
	"strings"

	"github.com/labstack/echo/v4"
)

// ListMeetingsHandler returns the current user's meetings
func ListMeetingsHandler(c echo.Context) error {
	meetings, err := services.ListMeetings(db.DB, middleware.CurrentPrincipal(c))
	if err != nil {
		return respondError(c, err, "Meeting")
	}
	return c.JSON(http.StatusOK, meetings)
}

// ListCaseMeetingsHandler returns the current user's meetings for one case
func ListCaseMeetingsHandler(c echo.Context) error {
	meetings, err := services.ListMeetingsForCase(db.DB, middleware.CurrentPrincipal(c), c.Param("caseId"))
	if err != nil {
		return respondError(c, err, "Meeting")
	}
	return c.JSON(http.StatusOK, meetings)
}

// CreateMeetingHandler schedules a meeting owned by the current user
func CreateMeetingHandler(c echo.Context) error {
	var input services.MeetingInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	meeting, err := services.CreateMeeting(db.DB, middleware.CurrentPrincipal(c), &input)
	if err != nil {
		return respondError(c, err, "Meeting")
	}
	return c.JSON(http.StatusCreated, meeting)
}

// GetMeetingHandler returns one meeting
func GetMeetingHandler(c echo.Context) error {
	meeting, err := services.GetMeeting(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Meeting")
	}
	return c.JSON(http.StatusOK, meeting)
}

// UpdateMeetingHandler applies a partial update to a meeting
func UpdateMeetingHandler(c echo.Context) error {
	var input services.MeetingInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	meeting, err := services.UpdateMeeting(db.DB, middleware.CurrentPrincipal(c), c.Param("id"), &input)
	if err != nil {
		return respondError(c, err, "Meeting")
	}
	return c.JSON(http.StatusOK, meeting)
}

// DeleteMeetingHandler removes a meeting
func DeleteMeetingHandler(c echo.Context) error {
	if err := services.DeleteMeeting(db.DB, middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
		return respondError(c, err, "Meeting")
	}
	return message(c, http.StatusOK, "Meeting deleted")
}

// MeetingICSHandler downloads a meeting as an iCalendar file
func MeetingICSHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	meeting, err := services.GetMeeting(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Meeting")
	}

	ics := services.GenerateMeetingICS(meeting, user.FullName(), user.Email)

	slug := strings.ToLower(strings.Join(strings.Fields(meeting.Title), "-"))
	if slug == "" {
		slug = "meeting"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", slug+".ics"))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", ics)
}
