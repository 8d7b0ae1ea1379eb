// internal/services/testhelpers_test.go
package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/procurehub/rfp-backend/internal/models"
)

// newTestDB opens a fresh in-memory database per test. The DSN is named
// so the shared cache survives across pooled connections; TranslateError
// keeps duplicate-key detection identical to production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RFP{},
		&models.Response{},
		&models.AuditLog{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("TestPass123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func asActor(u *models.User) models.Actor {
	return models.Actor{ID: u.ID, Role: u.Role}
}

// seedRFP inserts an RFP directly in the given status, bypassing the
// lifecycle so tests can start from any state.
func seedRFP(t *testing.T, db *gorm.DB, buyerID uuid.UUID, title string, status models.RFPStatus) *models.RFP {
	t.Helper()

	rfp := &models.RFP{
		BuyerID:     buyerID,
		Title:       title,
		Description: "Description for " + title,
		DocumentURL: "http://localhost:8080/uploads/rfp-documents/" + title + ".pdf",
		Status:      status,
	}
	require.NoError(t, db.Create(rfp).Error)
	return rfp
}

func errKind(err error) models.ErrorKind {
	var domainErr *models.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

func rfpStatus(t *testing.T, db *gorm.DB, rfpID uuid.UUID) models.RFPStatus {
	t.Helper()

	var rfp models.RFP
	require.NoError(t, db.First(&rfp, "id = ?", rfpID).Error)
	return rfp.Status
}
