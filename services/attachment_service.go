package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"socialcare365/models"
	"time"

	"gorm.io/gorm"
)

// AddAttachment stores an uploaded file and records it on the case
func AddAttachment(ctx context.Context, db *gorm.DB, storage StorageProvider, p Principal, caseID string, fileHeader *multipart.FileHeader) (*models.CaseAttachment, error) {
	c, err := loadCase(db, caseID)
	if err != nil {
		return nil, err
	}
	if !CanUploadAttachment(p, c) {
		return nil, ErrNotFound
	}

	if err := ValidateAttachmentUpload(fileHeader); err != nil {
		verr := &ValidationError{}
		verr.Add("file", capitalize(err.Error()))
		return nil, verr
	}

	originalName := sanitizeOriginalName(fileHeader.Filename)
	key := GenerateAttachmentKey(c.ID, originalName)
	result, err := storage.Upload(ctx, fileHeader, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	attachment := &models.CaseAttachment{
		CaseID:       c.ID,
		Filename:     result.FileName,
		OriginalName: originalName,
		StorageKey:   result.Key,
		MimeType:     result.MimeType,
		Size:         result.FileSize,
		UploadedBy:   p.ID,
		UploadedAt:   time.Now(),
	}
	if err := db.Create(attachment).Error; err != nil {
		// Do not leave an unreferenced blob behind
		if delErr := storage.Delete(ctx, result.Key); delErr != nil {
			log.Printf("[WARNING] Failed to clean up attachment blob %s: %v", result.Key, delErr)
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	// Touch the case so updatedAt reflects the new attachment
	if err := db.Model(c).Update("updated_at", time.Now()).Error; err != nil {
		log.Printf("[WARNING] Failed to touch case %s: %v", c.ID, err)
	}

	return attachment, nil
}

// GetAttachment returns the attachment metadata when p may read the case
func GetAttachment(db *gorm.DB, p Principal, caseID, filename string) (*models.CaseAttachment, error) {
	c, err := GetCase(db, p, caseID)
	if err != nil {
		return nil, err
	}
	a := c.FindAttachment(filename)
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// OpenAttachment streams the stored file of an attachment p may read
func OpenAttachment(ctx context.Context, db *gorm.DB, storage StorageProvider, p Principal, caseID, filename string) (*models.CaseAttachment, io.ReadCloser, error) {
	a, err := GetAttachment(db, p, caseID, filename)
	if err != nil {
		return nil, nil, err
	}

	reader, _, err := storage.Get(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return a, reader, nil
}

// RemoveAttachment deletes an attachment record and its stored file
func RemoveAttachment(ctx context.Context, db *gorm.DB, storage StorageProvider, p Principal, caseID, filename string) error {
	c, err := loadCase(db, caseID)
	if err != nil {
		return err
	}
	if !CanDeleteAttachment(p, c) {
		return ErrNotFound
	}
	a := c.FindAttachment(filename)
	if a == nil {
		return ErrNotFound
	}

	if err := db.Delete(&models.CaseAttachment{}, "id = ?", a.ID).Error; err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := storage.Delete(ctx, a.StorageKey); err != nil {
		log.Printf("[WARNING] Failed to delete attachment blob %s: %v", a.StorageKey, err)
	}
	return nil
}
