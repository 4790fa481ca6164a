package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createMockFileHeader(filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(32 * 1024 * 1024)
	return form.File["file"][0]
}

func TestValidateAttachmentUpload(t *testing.T) {
	t.Run("Valid PDF", func(t *testing.T) {
		file := createMockFileHeader("report.pdf", append([]byte("%PDF-1.4\n"), make([]byte, 100)...))
		assert.NoError(t, ValidateAttachmentUpload(file))
	})

	t.Run("Valid DOCX uppercase extension", func(t *testing.T) {
		file := createMockFileHeader("PLAN.DOCX", []byte("PK\x03\x04"))
		assert.NoError(t, ValidateAttachmentUpload(file))
	})

	t.Run("File too large", func(t *testing.T) {
		file := createMockFileHeader("large.pdf", make([]byte, 11*1024*1024))
		err := ValidateAttachmentUpload(file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds maximum allowed size")
	})

	t.Run("Empty file", func(t *testing.T) {
		file := createMockFileHeader("empty.txt", nil)
		assert.Error(t, ValidateAttachmentUpload(file))
	})

	t.Run("Invalid extension", func(t *testing.T) {
		file := createMockFileHeader("tool.exe", []byte("MZ"))
		err := ValidateAttachmentUpload(file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "file type not allowed")
	})

	t.Run("Nil header", func(t *testing.T) {
		assert.Error(t, ValidateAttachmentUpload(nil))
	})
}

func TestSanitizeOriginalName(t *testing.T) {
	assert.Equal(t, "notes.txt", sanitizeOriginalName("../../etc/notes.txt"))
	assert.Equal(t, "scan.png", sanitizeOriginalName(`C:\Users\me\scan.png`))
	assert.Equal(t, "attachment", sanitizeOriginalName(""))
}
