package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meeting status constants
const (
	MeetingStatusScheduled = "Scheduled"
	MeetingStatusCompleted = "Completed"
	MeetingStatusCancelled = "Cancelled"
)

const (
	DefaultMeetingDuration = 60 // minutes
	DefaultMeetingType     = "Case Review"
)

type Meeting struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ScheduledAt time.Time `gorm:"not null;index" json:"scheduledAt"`
	Duration    int       `gorm:"not null;default:60" json:"duration"` // minutes
	MeetingType string    `json:"meetingType"`
	Location    string    `json:"location"`
	Attendees   []string  `gorm:"serializer:json;type:text" json:"attendees"`

	// Denormalized copies of the linked case
	CaseID   string `gorm:"index" json:"caseId"`
	CaseName string `json:"caseName"`

	CreatedByID string `gorm:"type:uuid;not null;index" json:"createdBy"`
	Status      string `gorm:"not null;default:Scheduled" json:"status"`

	ReminderSentAt *time.Time `json:"-"`
}

// BeforeCreate hook to generate UUID and apply defaults
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Duration <= 0 {
		m.Duration = DefaultMeetingDuration
	}
	if m.MeetingType == "" {
		m.MeetingType = DefaultMeetingType
	}
	if m.Status == "" {
		m.Status = MeetingStatusScheduled
	}
	if m.Attendees == nil {
		m.Attendees = []string{}
	}
	return nil
}

// TableName specifies the table name for Meeting model
func (Meeting) TableName() string {
	return "meetings"
}

// EndsAt returns the scheduled end time
func (m *Meeting) EndsAt() time.Time {
	return m.ScheduledAt.Add(time.Duration(m.Duration) * time.Minute)
}

// IsValidMeetingStatus checks if the status is valid
func IsValidMeetingStatus(status string) bool {
	switch status {
	case MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled:
		return true
	}
	return false
}
