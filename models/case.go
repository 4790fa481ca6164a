package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusOpen       = "Open"
	CaseStatusInProgress = "In Progress"
	CaseStatusOnHold     = "On Hold"
	CaseStatusClosed     = "Closed"
)

// Priority constants shared by cases and tasks
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Case represents a client (service user) tracked by caseworkers
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Case identification
	CaseID                string     `gorm:"not null;uniqueIndex" json:"caseId"`
	ClientFullName        string     `gorm:"not null;index" json:"clientFullName"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	ClientReferenceNumber string     `json:"clientReferenceNumber"`
	CaseType              string     `json:"caseType"`
	Description           string     `gorm:"type:text" json:"description"`

	// Status and priority
	CaseStatus    string `gorm:"not null;default:Open;index" json:"caseStatus"`
	PriorityLevel string `gorm:"not null;default:Medium" json:"priorityLevel"`

	// Assignment, stored as full names
	AssignedSocialWorkers []string `gorm:"serializer:json;type:text" json:"assignedSocialWorkers"`

	// Safeguarding
	SafeguardingConcerns string `gorm:"type:text" json:"safeguardingConcerns"`
	RiskLevel            string `json:"riskLevel"`
	SafeguardingNotes    string `gorm:"type:text" json:"safeguardingNotes"`

	// Meeting notes
	LastMeetingDate *time.Time `json:"lastMeetingDate,omitempty"`
	MeetingNotes    string     `gorm:"type:text" json:"meetingNotes"`
	NextSteps       string     `gorm:"type:text" json:"nextSteps"`

	CreatedByID string `gorm:"type:uuid;not null;index" json:"createdBy"`

	// Archive tracking
	Archived      bool       `gorm:"not null;default:false;index" json:"archived"`
	ArchivedAt    *time.Time `json:"archivedAt"`
	ArchivedBy    *string    `gorm:"type:uuid" json:"archivedBy"`
	ArchiveReason *string    `json:"archiveReason,omitempty"`

	// Relationships
	Attachments []CaseAttachment `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"attachments"`
}

// BeforeCreate hook to generate UUID and apply defaults
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CaseStatus == "" {
		c.CaseStatus = CaseStatusOpen
	}
	if c.PriorityLevel == "" {
		c.PriorityLevel = PriorityMedium
	}
	if c.AssignedSocialWorkers == nil {
		c.AssignedSocialWorkers = []string{}
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsAssigned checks if the given full name is on the assignment list
func (c *Case) IsAssigned(fullName string) bool {
	if fullName == "" {
		return false
	}
	for _, name := range c.AssignedSocialWorkers {
		if name == fullName {
			return true
		}
	}
	return false
}

// FindAttachment returns the attachment stored under filename
func (c *Case) FindAttachment(filename string) *CaseAttachment {
	for i := range c.Attachments {
		if c.Attachments[i].Filename == filename {
			return &c.Attachments[i]
		}
	}
	return nil
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	validStatuses := []string{
		CaseStatusOpen,
		CaseStatusInProgress,
		CaseStatusOnHold,
		CaseStatusClosed,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPriority checks if the priority is valid
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
