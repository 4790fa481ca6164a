package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseComment is a note left on a case
type CaseComment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	CaseID     string `gorm:"type:uuid;not null;index" json:"caseId"`
	UserID     string `gorm:"type:uuid;not null;index" json:"userId"`
	AuthorName string `gorm:"not null" json:"authorName"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

// BeforeCreate hook to generate UUID
func (c *CaseComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseComment model
func (CaseComment) TableName() string {
	return "case_comments"
}

// TaskComment is a note left on a task
type TaskComment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	TaskID     string `gorm:"type:uuid;not null;index" json:"taskId"`
	UserID     string `gorm:"type:uuid;not null;index" json:"userId"`
	AuthorName string `gorm:"not null" json:"authorName"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

// BeforeCreate hook to generate UUID
func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for TaskComment model
func (TaskComment) TableName() string {
	return "task_comments"
}
