package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// allowedAttachmentExtensions lists the file types caseworkers may attach
var allowedAttachmentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".xls":  true,
	".xlsx": true,
}

// ValidateAttachmentUpload checks the uploaded file type and size
func ValidateAttachmentUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return fmt.Errorf("no file uploaded")
	}

	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of 10MB")
	}
	if fileHeader.Size == 0 {
		return fmt.Errorf("uploaded file is empty")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAttachmentExtensions[ext] {
		return fmt.Errorf("file type not allowed. Accepted formats: PDF, DOC, DOCX, TXT, JPG, PNG, XLS, XLSX")
	}

	return nil
}

// sanitizeOriginalName keeps only the base name of a client supplied filename
func sanitizeOriginalName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return "attachment"
	}
	return name
}
