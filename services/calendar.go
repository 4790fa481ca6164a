package services

import (
	"fmt"
	"socialcare365/models"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Calendar event kinds
const (
	EventKindTask    = "task"
	EventKindMeeting = "meeting"
)

// DefaultCalendarWindow is used when the caller gives no range
const DefaultCalendarWindow = 31 * 24 * time.Hour

// CalendarEvent is a task due date or a meeting placed on the calendar
type CalendarEvent struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	Status   string    `json:"status"`
	Priority string    `json:"priority,omitempty"`
	CaseID   string    `json:"caseId,omitempty"`
	CaseName string    `json:"caseName,omitempty"`
	Location string    `json:"location,omitempty"`
}

// CalendarRange resolves from/to query values into a half-open range.
// Blank values default to the window starting at the beginning of today.
func CalendarRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if strings.TrimSpace(fromStr) != "" {
		parsed, err := ParseDate(fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
		}
		from = parsed
	}

	to := from.Add(DefaultCalendarWindow)
	if strings.TrimSpace(toStr) != "" {
		parsed, err := ParseDate(toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
		}
		to = parsed
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be after from")
	}
	return from, to, nil
}

// BuildCalendarEvents merges tasks and meetings inside [from, to) sorted by start
func BuildCalendarEvents(tasks []models.Task, meetings []models.Meeting, from, to time.Time) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(tasks)+len(meetings))

	for _, t := range tasks {
		if t.DueDate.Before(from) || !t.DueDate.Before(to) {
			continue
		}
		events = append(events, CalendarEvent{
			ID:       t.ID,
			Kind:     EventKindTask,
			Title:    t.Title,
			Start:    t.DueDate,
			End:      t.DueDate,
			AllDay:   true,
			Status:   t.Status,
			Priority: t.Priority,
			CaseID:   t.CaseID,
			CaseName: t.CaseName,
		})
	}

	for _, m := range meetings {
		if m.ScheduledAt.Before(from) || !m.ScheduledAt.Before(to) {
			continue
		}
		events = append(events, CalendarEvent{
			ID:       m.ID,
			Kind:     EventKindMeeting,
			Title:    m.Title,
			Start:    m.ScheduledAt,
			End:      m.EndsAt(),
			Status:   m.Status,
			CaseID:   m.CaseID,
			CaseName: m.CaseName,
			Location: m.Location,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// ListCalendarEvents loads the tasks and meetings visible to p inside the range
func ListCalendarEvents(db *gorm.DB, p Principal, from, to time.Time) ([]CalendarEvent, error) {
	from, to = from.UTC(), to.UTC()
	taskQuery := db.Where("due_date >= ? AND due_date < ?", from, to)
	if !p.IsManager() {
		taskQuery = taskQuery.Where("created_by_id = ?", p.ID)
	}
	var tasks []models.Task
	if err := taskQuery.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load calendar tasks: %w", err)
	}

	var meetings []models.Meeting
	err := db.Where("created_by_id = ? AND scheduled_at >= ? AND scheduled_at < ?", p.ID, from, to).
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar meetings: %w", err)
	}

	return BuildCalendarEvents(tasks, meetings, from, to), nil
}

// escapeICSText escapes backslashes, semicolons, commas and newlines
func escapeICSText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)
	return r.Replace(s)
}

// GenerateMeetingICS generates an ICS file content for a meeting
func GenerateMeetingICS(m *models.Meeting, organizerName, organizerEmail string) []byte {
	// Format dates for ICS (YYYYMMDDTHHMMSSZ)
	dateFormat := "20060102T150405Z"

	description := m.Description
	if m.CaseName != "" {
		description = strings.TrimSpace(fmt.Sprintf("Case: %s\n\n%s", m.CaseName, description))
	}
	if len(m.Attendees) > 0 {
		description += "\n\nAttendees: " + strings.Join(m.Attendees, ", ")
	}

	status := "CONFIRMED"
	if m.Status == models.MeetingStatusCancelled {
		status = "CANCELLED"
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//SocialCare365//Meeting//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + m.ID + "@socialcare365",
		"DTSTAMP:" + time.Now().UTC().Format(dateFormat),
		"DTSTART:" + m.ScheduledAt.UTC().Format(dateFormat),
		"DTEND:" + m.EndsAt().UTC().Format(dateFormat),
		"SUMMARY:" + escapeICSText(m.MeetingType+": "+m.Title),
		"DESCRIPTION:" + escapeICSText(description),
	}
	if m.Location != "" {
		lines = append(lines, "LOCATION:"+escapeICSText(m.Location))
	}
	lines = append(lines,
		fmt.Sprintf("ORGANIZER;CN=\"%s\":mailto:%s", strings.ReplaceAll(organizerName, `"`, ""), organizerEmail),
		"STATUS:"+status,
		"END:VEVENT",
		"END:VCALENDAR",
	)

	// RFC 5545 requires CRLF line endings
	return []byte(strings.Join(lines, "\r\n"))
}
