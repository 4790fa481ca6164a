package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status constants, one per Kanban column
const (
	TaskStatusBacklog    = "Backlog"
	TaskStatusInProgress = "In Progress"
	TaskStatusBlocked    = "Blocked"
	TaskStatusComplete   = "Complete"
)

// TaskStatuses lists the board columns in display order
var TaskStatuses = []string{
	TaskStatusBacklog,
	TaskStatusInProgress,
	TaskStatusBlocked,
	TaskStatusComplete,
}

type Task struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	AssignedTo  string    `json:"assignedTo"` // Free-text name
	DueDate     time.Time `gorm:"not null;index" json:"dueDate"`
	Priority    string    `gorm:"not null;default:Medium" json:"priority"`
	Status      string    `gorm:"not null;default:Backlog;index" json:"status"`

	// Denormalized copies of the linked case, not referentially enforced
	CaseID   string `gorm:"index" json:"caseId"`
	CaseName string `json:"caseName"`

	CreatedByID string `gorm:"type:uuid;not null;index" json:"createdBy"`
}

// BeforeCreate hook to generate UUID and apply defaults
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = TaskStatusBacklog
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}

// IsValidTaskStatus checks if the status is one of the board columns
func IsValidTaskStatus(status string) bool {
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}
