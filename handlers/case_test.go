package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"socialcare365/models"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseRoundTrip(t *testing.T) {
	e, testDB := setupServer(t)
	_, token := createTestUser(t, testDB, "Sam", "Carer", models.RoleCaregiver)

	rec := doJSON(t, e, http.MethodPost, "/api/cases", token, map[string]interface{}{
		"caseId":         "CASE-202501-001",
		"clientFullName": "Alex Client",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Case](t, rec)

	rec = doJSON(t, e, http.MethodGet, "/api/cases/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[models.Case](t, rec)

	assert.Equal(t, "CASE-202501-001", fetched.CaseID)
	assert.Equal(t, "Alex Client", fetched.ClientFullName)
	assert.Equal(t, models.CaseStatusOpen, fetched.CaseStatus)
	assert.Equal(t, models.PriorityMedium, fetched.PriorityLevel)
	assert.Empty(t, fetched.Attachments)

	t.Run("Duplicate caseId is a 400", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/cases", token, map[string]interface{}{
			"caseId":         "CASE-202501-001",
			"clientFullName": "Someone Else",
		})
		assertMessage(t, rec, http.StatusBadRequest, "Case ID already exists")
	})

	t.Run("Missing client name is a 400 with field errors", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/cases", token, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[ValidationResponse](t, rec)
		assert.Equal(t, "clientFullName", resp.Errors[0].Field)
	})
}

func TestCaseAccessControl(t *testing.T) {
	e, testDB := setupServer(t)
	_, creatorToken := createTestUser(t, testDB, "Casey", "Creator", models.RoleCaregiver)
	_, strangerToken := createTestUser(t, testDB, "Stan", "Stranger", models.RoleCaregiver)
	_, assigneeToken := createTestUser(t, testDB, "Ash", "Assigned", models.RoleCaregiver)
	_, managerToken := createTestUser(t, testDB, "Morgan", "Manager", models.RoleManager)

	newCase := func() models.Case {
		rec := doJSON(t, e, http.MethodPost, "/api/cases", creatorToken, map[string]interface{}{
			"clientFullName":        "Alex Client",
			"assignedSocialWorkers": []string{"Ash Assigned"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[models.Case](t, rec)
	}

	t.Run("Stranger gets 404 for read, update and delete", func(t *testing.T) {
		c := newCase()
		path := "/api/cases/" + c.ID

		assertMessage(t, doJSON(t, e, http.MethodGet, path, strangerToken, nil), http.StatusNotFound, "Case not found")
		assertMessage(t, doJSON(t, e, http.MethodPut, path, strangerToken, map[string]string{"nextSteps": "x"}), http.StatusNotFound, "Case not found")
		assertMessage(t, doJSON(t, e, http.MethodDelete, path, strangerToken, nil), http.StatusNotFound, "Case not found")

		var count int64
		testDB.Model(&models.Case{}).Where("id = ?", c.ID).Count(&count)
		assert.Equal(t, int64(1), count)

		list := decode[[]models.Case](t, doJSON(t, e, http.MethodGet, "/api/cases", strangerToken, nil))
		assert.Empty(t, list)
	})

	t.Run("Assignee reads and updates", func(t *testing.T) {
		c := newCase()
		path := "/api/cases/" + c.ID

		assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodGet, path, assigneeToken, nil).Code)
		rec := doJSON(t, e, http.MethodPut, path, assigneeToken, map[string]string{"caseStatus": models.CaseStatusOnHold})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.CaseStatusOnHold, decode[models.Case](t, rec).CaseStatus)
		assert.Equal(t, http.StatusNotFound, doJSON(t, e, http.MethodDelete, path, assigneeToken, nil).Code)
	})

	t.Run("Manager reads, updates and deletes", func(t *testing.T) {
		c := newCase()
		path := "/api/cases/" + c.ID

		assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodGet, path, managerToken, nil).Code)
		assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodPut, path, managerToken, map[string]string{"riskLevel": "High"}).Code)
		assertMessage(t, doJSON(t, e, http.MethodDelete, path, managerToken, nil), http.StatusOK, "Case deleted")
		assert.Equal(t, http.StatusNotFound, doJSON(t, e, http.MethodGet, path, creatorToken, nil).Code)
	})
}

func TestArchiveHandlers(t *testing.T) {
	e, testDB := setupServer(t)
	user, token := createTestUser(t, testDB, "Sam", "Carer", models.RoleCaregiver)

	rec := doJSON(t, e, http.MethodPost, "/api/cases", token, map[string]string{"clientFullName": "Alex"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[models.Case](t, rec)

	rec = doJSON(t, e, http.MethodPatch, "/api/cases/"+c.ID+"/archive", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	archived := decode[models.Case](t, rec)
	assert.True(t, archived.Archived)
	assert.NotNil(t, archived.ArchivedAt)
	require.NotNil(t, archived.ArchivedBy)
	assert.Equal(t, user.ID, *archived.ArchivedBy)

	assertMessage(t, doJSON(t, e, http.MethodPatch, "/api/cases/"+c.ID+"/archive", token, nil), http.StatusBadRequest, "Case is already archived")

	assert.Empty(t, decode[[]models.Case](t, doJSON(t, e, http.MethodGet, "/api/cases", token, nil)))
	assert.Len(t, decode[[]models.Case](t, doJSON(t, e, http.MethodGet, "/api/cases?archived=true", token, nil)), 1)

	rec = doJSON(t, e, http.MethodPatch, "/api/cases/"+c.ID+"/unarchive", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restored := decode[models.Case](t, rec)
	assert.False(t, restored.Archived)
	assert.Nil(t, restored.ArchivedAt)
	assert.Nil(t, restored.ArchivedBy)

	assertMessage(t, doJSON(t, e, http.MethodPatch, "/api/cases/"+c.ID+"/unarchive", token, nil), http.StatusBadRequest, "Case is not archived")
}

func uploadRequest(t *testing.T, path, token, filename string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestAttachmentHandlers(t *testing.T) {
	e, testDB := setupServer(t)
	_, ownerToken := createTestUser(t, testDB, "Sam", "Carer", models.RoleCaregiver)
	_, strangerToken := createTestUser(t, testDB, "Stan", "Stranger", models.RoleCaregiver)

	rec := doJSON(t, e, http.MethodPost, "/api/cases", ownerToken, map[string]string{"clientFullName": "Alex"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[models.Case](t, rec)

	content := []byte("%PDF-1.4 care plan")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "/api/cases/"+c.ID+"/upload", ownerToken, "care plan.pdf", content))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	attachment := decode[models.CaseAttachment](t, rec)
	assert.Equal(t, "care plan.pdf", attachment.OriginalName)

	t.Run("Rejected extension", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, uploadRequest(t, "/api/cases/"+c.ID+"/upload", ownerToken, "run.exe", []byte("MZ")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "file", decode[ValidationResponse](t, rec).Errors[0].Field)
	})

	t.Run("Stranger cannot upload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, uploadRequest(t, "/api/cases/"+c.ID+"/upload", strangerToken, "x.pdf", content))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	path := "/api/cases/" + c.ID + "/attachments/" + attachment.Filename

	t.Run("Download", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, path, ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, content, rec.Body.Bytes())
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "care plan.pdf")

		assert.Equal(t, http.StatusNotFound, doJSON(t, e, http.MethodGet, path, strangerToken, nil).Code)
	})

	t.Run("Case lists the attachment", func(t *testing.T) {
		fetched := decode[models.Case](t, doJSON(t, e, http.MethodGet, "/api/cases/"+c.ID, ownerToken, nil))
		require.Len(t, fetched.Attachments, 1)
		assert.Equal(t, attachment.Filename, fetched.Attachments[0].Filename)
	})

	t.Run("Delete", func(t *testing.T) {
		assertMessage(t, doJSON(t, e, http.MethodDelete, path, ownerToken, nil), http.StatusOK, "Attachment deleted")
		assert.Equal(t, http.StatusNotFound, doJSON(t, e, http.MethodGet, path, ownerToken, nil).Code)
	})
}

func TestExportCasesHandler(t *testing.T) {
	e, testDB := setupServer(t)
	_, token := createTestUser(t, testDB, "Sam", "Carer", models.RoleCaregiver)
	require.Equal(t, http.StatusCreated, doJSON(t, e, http.MethodPost, "/api/cases", token, map[string]string{"clientFullName": "Alex"}).Code)

	rec := doJSON(t, e, http.MethodGet, "/api/cases/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheetml")
	// XLSX files are zip archives
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}
