package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"socialcare365/config"
	"socialcare365/db"
	"socialcare365/middleware"
	"socialcare365/models"
	"socialcare365/services"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret-0123456789abcdefghij"

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		JWTSecret:          testJWTSecret,
		AllowedEmailDomain: ".gov.uk",
		EmailTestMode:      true,
		AppURL:             "http://localhost:3000",
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(models.All()...))

	// Set globals used by handlers
	db.DB = testDB
	services.Storage = services.NewLocalStorage(t.TempDir())
	middleware.LoginRateLimiter.Reset()
	middleware.RegisterRateLimiter.Reset()
	middleware.APIRateLimiter.Reset()

	return testDB
}

// setupServer returns the full API router with test config
func setupServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	testDB := setupTestDB(t)

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.WithConfig(testConfig()))
	RegisterRoutes(e)
	return e, testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyConfig, testConfig())
	return e, c, rec
}

func createTestUser(t *testing.T, testDB *gorm.DB, first, last, role string) (*models.User, string) {
	hashed, err := services.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{
		Email:     uuid.New().String()[:8] + "@council.gov.uk",
		Password:  hashed,
		FirstName: first,
		LastName:  last,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, testDB.Create(user).Error)

	token, err := services.GenerateToken(testJWTSecret, user)
	require.NoError(t, err)
	return user, token
}

// doJSON sends a request through the router, encoding body as JSON when non-nil
func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	resp := decode[MessageResponse](t, rec)
	assert.Equal(t, msg, resp.Message)
}
