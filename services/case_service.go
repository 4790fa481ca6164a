package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"socialcare365/models"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CaseIDPrefix starts every generated case ID
const CaseIDPrefix = "CASE"

// GenerateCaseID generates the next case ID for the month of now
// Format: CASE-{YYYYMM}-{SEQUENCE}
// Example: CASE-202501-001
func GenerateCaseID(db *gorm.DB, now time.Time) (string, error) {
	prefix := caseIDPrefix(now)
	sequence, err := nextCaseSequence(db, prefix)
	if err != nil {
		return "", err
	}
	return formatCaseID(prefix, sequence), nil
}

func caseIDPrefix(now time.Time) string {
	return fmt.Sprintf("%s-%s-", CaseIDPrefix, now.Format("200601"))
}

// Zero-padded to three digits; longer sequences simply grow
func formatCaseID(prefix string, sequence int64) string {
	return fmt.Sprintf("%s%03d", prefix, sequence)
}

// nextCaseSequence returns one past the highest numeric suffix under prefix.
// IDs with a non-numeric suffix (client supplied) are ignored.
func nextCaseSequence(db *gorm.DB, prefix string) (int64, error) {
	var maxSeq sql.NullInt64
	err := db.Model(&models.Case{}).
		Select("MAX(CAST(substr(case_id, ?) AS INTEGER))", len(prefix)+1).
		Where("case_id GLOB ?", prefix+"[0-9]*").
		Where("substr(case_id, ?) NOT GLOB ?", len(prefix)+1, "*[^0-9]*").
		Row().Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to query max case ID: %w", err)
	}
	if !maxSeq.Valid {
		return 1, nil
	}
	return maxSeq.Int64 + 1, nil
}

// EnsureUniqueCaseID generates a unique case ID, stepping the sequence
// past any ID taken in the meantime
func EnsureUniqueCaseID(db *gorm.DB, now time.Time) (string, error) {
	const maxRetries = 10

	prefix := caseIDPrefix(now)
	sequence, err := nextCaseSequence(db, prefix)
	if err != nil {
		return "", err
	}

	for i := int64(0); i < maxRetries; i++ {
		caseID := formatCaseID(prefix, sequence+i)
		exists, err := caseIDExists(db, caseID, "")
		if err != nil {
			return "", err
		}
		if !exists {
			return caseID, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique case ID after %d retries", maxRetries)
}

func caseIDExists(db *gorm.DB, caseID, excludeID string) (bool, error) {
	query := db.Model(&models.Case{}).Where("case_id = ?", caseID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check case ID uniqueness: %w", err)
	}
	return count > 0, nil
}

// CaseInput carries case fields from a create or update request.
// Nil fields are left untouched on update.
type CaseInput struct {
	CaseID                *string  `json:"caseId"`
	ClientFullName        *string  `json:"clientFullName"`
	DateOfBirth           *string  `json:"dateOfBirth"`
	ClientReferenceNumber *string  `json:"clientReferenceNumber"`
	CaseType              *string  `json:"caseType"`
	Description           *string  `json:"description"`
	CaseStatus            *string  `json:"caseStatus"`
	PriorityLevel         *string  `json:"priorityLevel"`
	AssignedSocialWorkers []string `json:"assignedSocialWorkers"`
	SafeguardingConcerns  *string  `json:"safeguardingConcerns"`
	RiskLevel             *string  `json:"riskLevel"`
	SafeguardingNotes     *string  `json:"safeguardingNotes"`
	LastMeetingDate       *string  `json:"lastMeetingDate"`
	MeetingNotes          *string  `json:"meetingNotes"`
	NextSteps             *string  `json:"nextSteps"`
}

// apply copies input onto c, recording field errors in verr
func (in *CaseInput) apply(c *models.Case, verr *ValidationError) {
	if in.CaseID != nil {
		c.CaseID = strings.TrimSpace(*in.CaseID)
	}
	if in.ClientFullName != nil {
		c.ClientFullName = strings.TrimSpace(*in.ClientFullName)
	}
	if in.DateOfBirth != nil {
		dob, err := parseOptionalDate(*in.DateOfBirth)
		if err != nil {
			verr.Add("dateOfBirth", "Date of birth must be a valid date")
		} else {
			c.DateOfBirth = dob
		}
	}
	if in.ClientReferenceNumber != nil {
		c.ClientReferenceNumber = strings.TrimSpace(*in.ClientReferenceNumber)
	}
	if in.CaseType != nil {
		c.CaseType = strings.TrimSpace(*in.CaseType)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.CaseStatus != nil {
		if !models.IsValidCaseStatus(*in.CaseStatus) {
			verr.Add("caseStatus", "Case status must be one of: Open, In Progress, On Hold, Closed")
		} else {
			c.CaseStatus = *in.CaseStatus
		}
	}
	if in.PriorityLevel != nil {
		if !models.IsValidPriority(*in.PriorityLevel) {
			verr.Add("priorityLevel", "Priority level must be one of: Low, Medium, High, Urgent")
		} else {
			c.PriorityLevel = *in.PriorityLevel
		}
	}
	if in.AssignedSocialWorkers != nil {
		c.AssignedSocialWorkers = normalizeNames(in.AssignedSocialWorkers)
	}
	if in.SafeguardingConcerns != nil {
		c.SafeguardingConcerns = *in.SafeguardingConcerns
	}
	if in.RiskLevel != nil {
		c.RiskLevel = strings.TrimSpace(*in.RiskLevel)
	}
	if in.SafeguardingNotes != nil {
		c.SafeguardingNotes = *in.SafeguardingNotes
	}
	if in.LastMeetingDate != nil {
		lmd, err := parseOptionalDate(*in.LastMeetingDate)
		if err != nil {
			verr.Add("lastMeetingDate", "Last meeting date must be a valid date")
		} else {
			c.LastMeetingDate = lmd
		}
	}
	if in.MeetingNotes != nil {
		c.MeetingNotes = *in.MeetingNotes
	}
	if in.NextSteps != nil {
		c.NextSteps = *in.NextSteps
	}
}

// normalizeNames trims names, dropping blanks and duplicates
func normalizeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// CreateCase validates input and stores a new case owned by p
func CreateCase(db *gorm.DB, p Principal, input *CaseInput) (*models.Case, error) {
	c := &models.Case{}
	verr := &ValidationError{}
	input.apply(c, verr)

	if c.ClientFullName == "" {
		verr.Add("clientFullName", "Client full name is required")
	}
	if input.CaseID != nil && c.CaseID == "" {
		verr.Add("caseId", "Case ID cannot be blank")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if c.CaseID == "" {
		caseID, err := EnsureUniqueCaseID(db, time.Now())
		if err != nil {
			return nil, err
		}
		c.CaseID = caseID
	} else {
		exists, err := caseIDExists(db, c.CaseID, "")
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateCaseID
		}
	}

	c.CreatedByID = p.ID
	if err := db.Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCaseID
		}
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	if c.Attachments == nil {
		c.Attachments = []models.CaseAttachment{}
	}
	return c, nil
}

// loadCase fetches a case with its attachments
func loadCase(db *gorm.DB, id string) (*models.Case, error) {
	var c models.Case
	err := db.Preload("Attachments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("uploaded_at ASC")
	}).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	return &c, nil
}

// GetCase returns the case when p may read it
func GetCase(db *gorm.DB, p Principal, id string) (*models.Case, error) {
	c, err := loadCase(db, id)
	if err != nil {
		return nil, err
	}
	if !CanReadCase(p, c) {
		return nil, ErrNotFound
	}
	return c, nil
}

// CaseFilter narrows a case listing
type CaseFilter struct {
	Archived bool
	Status   string
	Priority string
	Search   string
}

// ListCases returns the cases visible to p, newest first
func ListCases(db *gorm.DB, p Principal, filter CaseFilter) ([]models.Case, error) {
	query := db.Model(&models.Case{}).Where("archived = ?", filter.Archived)

	if !p.IsManager() {
		// Coarse match on the JSON column; exact membership is checked below
		nameJSON, _ := json.Marshal(p.FullName)
		query = query.Where("created_by_id = ? OR assigned_social_workers LIKE ?", p.ID, "%"+string(nameJSON)+"%")
	}

	if filter.Status != "" && models.IsValidCaseStatus(filter.Status) {
		query = query.Where("case_status = ?", filter.Status)
	}
	if filter.Priority != "" && models.IsValidPriority(filter.Priority) {
		query = query.Where("priority_level = ?", filter.Priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			db.Where("case_id LIKE ?", like).
				Or("client_full_name LIKE ?", like).
				Or("client_reference_number LIKE ?", like),
		)
	}

	var cases []models.Case
	if err := query.Preload("Attachments").Order("created_at DESC").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	visible := make([]models.Case, 0, len(cases))
	for i := range cases {
		if CanReadCase(p, &cases[i]) {
			visible = append(visible, cases[i])
		}
	}
	return visible, nil
}

// UpdateCase applies input to a case p may edit
func UpdateCase(db *gorm.DB, p Principal, id string, input *CaseInput) (*models.Case, error) {
	c, err := loadCase(db, id)
	if err != nil {
		return nil, err
	}
	if !CanUpdateCase(p, c) {
		return nil, ErrNotFound
	}

	previousCaseID := c.CaseID
	verr := &ValidationError{}
	input.apply(c, verr)

	if c.ClientFullName == "" {
		verr.Add("clientFullName", "Client full name is required")
	}
	if c.CaseID == "" {
		verr.Add("caseId", "Case ID cannot be blank")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if c.CaseID != previousCaseID {
		exists, err := caseIDExists(db, c.CaseID, c.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateCaseID
		}
	}

	if err := db.Omit(clause.Associations).Save(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCaseID
		}
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	return c, nil
}

// ArchiveCase soft-closes a case
func ArchiveCase(db *gorm.DB, p Principal, id string, reason string) (*models.Case, error) {
	c, err := loadCase(db, id)
	if err != nil {
		return nil, err
	}
	if !CanArchiveCase(p, c) {
		return nil, ErrNotFound
	}
	if c.Archived {
		return nil, ErrAlreadyArchived
	}

	now := time.Now()
	updates := map[string]interface{}{
		"archived":       true,
		"archived_at":    now,
		"archived_by":    p.ID,
		"archive_reason": nil,
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		updates["archive_reason"] = reason
	}
	if err := db.Model(c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to archive case: %w", err)
	}

	return loadCase(db, id)
}

// UnarchiveCase restores an archived case to the default listings
func UnarchiveCase(db *gorm.DB, p Principal, id string) (*models.Case, error) {
	c, err := loadCase(db, id)
	if err != nil {
		return nil, err
	}
	if !CanArchiveCase(p, c) {
		return nil, ErrNotFound
	}
	if !c.Archived {
		return nil, ErrNotArchived
	}

	updates := map[string]interface{}{
		"archived":       false,
		"archived_at":    nil,
		"archived_by":    nil,
		"archive_reason": nil,
	}
	if err := db.Model(c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to unarchive case: %w", err)
	}

	return loadCase(db, id)
}

// DeleteCase hard-deletes a case along with its comments and attachments
func DeleteCase(ctx context.Context, db *gorm.DB, storage StorageProvider, p Principal, id string) error {
	c, err := loadCase(db, id)
	if err != nil {
		return err
	}
	if !CanDeleteCase(p, c) {
		return ErrNotFound
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", c.ID).Delete(&models.CaseComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("case_id = ?", c.ID).Delete(&models.CaseAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}

	// Files are removed after the rows; a failure here only leaves orphaned blobs
	if storage != nil {
		for _, a := range c.Attachments {
			if err := storage.Delete(ctx, a.StorageKey); err != nil {
				log.Printf("[WARNING] Failed to delete attachment %s of case %s: %v", a.Filename, c.ID, err)
			}
		}
	}

	LogSecurityEvent("CASE_DELETED", p.ID, "Deleted case: "+c.CaseID)
	return nil
}
