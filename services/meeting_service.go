package services

import (
	"errors"
	"fmt"
	"socialcare365/models"
	"strings"

	"gorm.io/gorm"
)

// MeetingInput carries meeting fields from a create or update request
type MeetingInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ScheduledAt *string  `json:"scheduledAt"`
	Duration    *int     `json:"duration"`
	MeetingType *string  `json:"meetingType"`
	Location    *string  `json:"location"`
	Attendees   []string `json:"attendees"`
	CaseID      *string  `json:"caseId"`
	CaseName    *string  `json:"caseName"`
	Status      *string  `json:"status"`
}

func (in *MeetingInput) apply(m *models.Meeting, verr *ValidationError) {
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.ScheduledAt != nil {
		if strings.TrimSpace(*in.ScheduledAt) == "" {
			verr.Add("scheduledAt", "Scheduled time is required")
		} else if at, err := ParseDate(*in.ScheduledAt); err != nil {
			verr.Add("scheduledAt", "Scheduled time must be a valid date")
		} else {
			m.ScheduledAt = at
		}
	}
	if in.Duration != nil {
		if *in.Duration <= 0 || *in.Duration > 24*60 {
			verr.Add("duration", "Duration must be between 1 and 1440 minutes")
		} else {
			m.Duration = *in.Duration
		}
	}
	if in.MeetingType != nil {
		m.MeetingType = strings.TrimSpace(*in.MeetingType)
	}
	if in.Location != nil {
		m.Location = strings.TrimSpace(*in.Location)
	}
	if in.Attendees != nil {
		m.Attendees = normalizeNames(in.Attendees)
	}
	if in.CaseID != nil {
		m.CaseID = strings.TrimSpace(*in.CaseID)
	}
	if in.CaseName != nil {
		m.CaseName = strings.TrimSpace(*in.CaseName)
	}
	if in.Status != nil {
		if !models.IsValidMeetingStatus(*in.Status) {
			verr.Add("status", "Status must be one of: Scheduled, Completed, Cancelled")
		} else {
			m.Status = *in.Status
		}
	}
}

// CreateMeeting validates input and stores a meeting owned by p
func CreateMeeting(db *gorm.DB, p Principal, input *MeetingInput) (*models.Meeting, error) {
	m := &models.Meeting{}
	verr := &ValidationError{}
	input.apply(m, verr)

	if m.Title == "" {
		verr.Add("title", "Title is required")
	}
	if input.ScheduledAt == nil {
		verr.Add("scheduledAt", "Scheduled time is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	m.CreatedByID = p.ID
	if err := db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return m, nil
}

// ListMeetings returns p's own meetings, soonest first. The manager role
// does not widen this listing.
func ListMeetings(db *gorm.DB, p Principal) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := db.Where("created_by_id = ?", p.ID).
		Order("scheduled_at ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// ListMeetingsForCase returns p's own meetings linked to caseID
func ListMeetingsForCase(db *gorm.DB, p Principal, caseID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := db.Where("created_by_id = ? AND case_id = ?", p.ID, caseID).
		Order("scheduled_at ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// GetMeeting returns the meeting when p created it
func GetMeeting(db *gorm.DB, p Principal, id string) (*models.Meeting, error) {
	var m models.Meeting
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch meeting: %w", err)
	}
	if !CanAccessMeeting(p, &m) {
		return nil, ErrNotFound
	}
	return &m, nil
}

// UpdateMeeting applies input to a meeting p created
func UpdateMeeting(db *gorm.DB, p Principal, id string, input *MeetingInput) (*models.Meeting, error) {
	m, err := GetMeeting(db, p, id)
	if err != nil {
		return nil, err
	}

	previousStart := m.ScheduledAt
	verr := &ValidationError{}
	input.apply(m, verr)
	if m.Title == "" {
		verr.Add("title", "Title is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	// A rescheduled meeting gets a fresh reminder
	if !m.ScheduledAt.Equal(previousStart) {
		m.ReminderSentAt = nil
	}

	if err := db.Save(m).Error; err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return m, nil
}

// DeleteMeeting removes a meeting p created
func DeleteMeeting(db *gorm.DB, p Principal, id string) error {
	m, err := GetMeeting(db, p, id)
	if err != nil {
		return err
	}
	if err := db.Delete(m).Error; err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}
