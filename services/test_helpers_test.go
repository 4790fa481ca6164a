package services

import (
	"socialcare365/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, first, last, role string) *models.User {
	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{
		Email:     uuid.New().String()[:8] + "@council.gov.uk",
		Password:  hashed,
		FirstName: first,
		LastName:  last,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func strPtr(s string) *string {
	return &s
}
