package handlers

import (
	"fmt"
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/services"

	"github.com/labstack/echo/v4"
)

// UploadAttachmentHandler stores the multipart field "file" on a case
func UploadAttachmentHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ValidationResponse{
			Message: "Validation failed",
			Errors:  []services.FieldError{{Field: "file", Message: "File is required"}},
		})
	}

	attachment, err := services.AddAttachment(c.Request().Context(), db.DB, services.Storage,
		middleware.CurrentPrincipal(c), c.Param("id"), file)
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusCreated, attachment)
}

// DownloadAttachmentHandler streams an attachment back with its original name
func DownloadAttachmentHandler(c echo.Context) error {
	attachment, reader, err := services.OpenAttachment(c.Request().Context(), db.DB, services.Storage,
		middleware.CurrentPrincipal(c), c.Param("id"), c.Param("filename"))
	if err != nil {
		return respondError(c, err, "Attachment")
	}
	defer reader.Close()

	contentType := attachment.MimeType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", attachment.OriginalName))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteAttachmentHandler removes an attachment from a case
func DeleteAttachmentHandler(c echo.Context) error {
	err := services.RemoveAttachment(c.Request().Context(), db.DB, services.Storage,
		middleware.CurrentPrincipal(c), c.Param("id"), c.Param("filename"))
	if err != nil {
		return respondError(c, err, "Attachment")
	}
	return message(c, http.StatusOK, "Attachment deleted")
}
