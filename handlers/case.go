package handlers

import (
	"fmt"
	"net/http"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/services"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// ArchiveRequest is the optional archive payload
type ArchiveRequest struct {
	Reason string `json:"reason"`
}

func caseFilterFromQuery(c echo.Context) services.CaseFilter {
	archived, _ := strconv.ParseBool(c.QueryParam("archived"))
	return services.CaseFilter{
		Archived: archived,
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Search:   c.QueryParam("search"),
	}
}

// ListCasesHandler returns the cases visible to the current user
func ListCasesHandler(c echo.Context) error {
	cases, err := services.ListCases(db.DB, middleware.CurrentPrincipal(c), caseFilterFromQuery(c))
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusOK, cases)
}

// CreateCaseHandler creates a case owned by the current user
func CreateCaseHandler(c echo.Context) error {
	var input services.CaseInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	created, err := services.CreateCase(db.DB, middleware.CurrentPrincipal(c), &input)
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusCreated, created)
}

// GetCaseHandler returns one case
func GetCaseHandler(c echo.Context) error {
	found, err := services.GetCase(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusOK, found)
}

// UpdateCaseHandler applies a partial update to a case
func UpdateCaseHandler(c echo.Context) error {
	var input services.CaseInput
	if err := c.Bind(&input); err != nil {
		return invalidBody(c)
	}

	updated, err := services.UpdateCase(db.DB, middleware.CurrentPrincipal(c), c.Param("id"), &input)
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCaseHandler hard-deletes a case
func DeleteCaseHandler(c echo.Context) error {
	err := services.DeleteCase(c.Request().Context(), db.DB, services.Storage, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Case")
	}
	return message(c, http.StatusOK, "Case deleted")
}

// ArchiveCaseHandler archives a case
func ArchiveCaseHandler(c echo.Context) error {
	// The body is optional; Bind skips empty bodies
	var req ArchiveRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	archived, err := services.ArchiveCase(db.DB, middleware.CurrentPrincipal(c), c.Param("id"), req.Reason)
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusOK, archived)
}

// UnarchiveCaseHandler restores an archived case
func UnarchiveCaseHandler(c echo.Context) error {
	restored, err := services.UnarchiveCase(db.DB, middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Case")
	}
	return c.JSON(http.StatusOK, restored)
}

// ExportCasesHandler downloads the visible cases as a spreadsheet
func ExportCasesHandler(c echo.Context) error {
	cases, err := services.ListCases(db.DB, middleware.CurrentPrincipal(c), caseFilterFromQuery(c))
	if err != nil {
		return respondError(c, err, "Case")
	}

	data, err := services.ExportCasesXLSX(cases)
	if err != nil {
		return respondError(c, err, "Case")
	}

	filename := fmt.Sprintf("cases_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// CaseReportHandler renders a case summary as PDF
func CaseReportHandler(c echo.Context) error {
	p := middleware.CurrentPrincipal(c)

	found, err := services.GetCase(db.DB, p, c.Param("id"))
	if err != nil {
		return respondError(c, err, "Case")
	}
	comments, err := services.ListCaseComments(db.DB, p, found.ID)
	if err != nil {
		return respondError(c, err, "Case")
	}

	pdf, err := services.GenerateCaseReportPDF(c.Request().Context(), found, comments)
	if err != nil {
		return respondError(c, err, "Case")
	}

	filename := fmt.Sprintf("%s_summary.pdf", found.CaseID)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
