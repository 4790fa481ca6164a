package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseAttachment represents a file attached to a case
type CaseAttachment struct {
	ID     string `gorm:"type:uuid;primarykey" json:"id"`
	CaseID string `gorm:"type:uuid;not null;index" json:"-"`

	// File metadata
	Filename     string `gorm:"not null;uniqueIndex" json:"filename"`
	OriginalName string `gorm:"not null" json:"originalName"`
	StorageKey   string `gorm:"not null" json:"-"` // Not exposed in JSON for security
	MimeType     string `json:"mimeType"`
	Size         int64  `gorm:"not null" json:"size"`

	// Upload tracking
	UploadedBy string    `gorm:"type:uuid" json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// BeforeCreate hook to generate UUID
func (a *CaseAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.UploadedAt.IsZero() {
		a.UploadedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for CaseAttachment model
func (CaseAttachment) TableName() string {
	return "case_attachments"
}

// GetDownloadURL returns the authenticated download URL for this attachment
func (a *CaseAttachment) GetDownloadURL() string {
	return "/api/cases/" + a.CaseID + "/attachments/" + a.Filename
}
