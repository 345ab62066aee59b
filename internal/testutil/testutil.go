// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/database"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database.
// The pool is pinned to one connection so every query sees the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	return db
}

// NewMockDB returns a gorm handle backed by go-sqlmock, speaking the mysql dialect.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

var userSeq int

// CreateUser inserts a user with the given role and returns it.
func CreateUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	userSeq++
	user := &models.User{
		Name:         fmt.Sprintf("User %d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateComplaint inserts a submitted complaint owned by creatorID.
func CreateComplaint(t *testing.T, db *gorm.DB, creatorID uint64) *models.Complaint {
	t.Helper()

	complaint := &models.Complaint{
		Title:       "Overflowing garbage bin",
		Description: "The bin on the corner has not been emptied for a week.",
		Category:    models.CategoryGarbage,
		Location:    models.Location{Lat: 12.97, Lng: 77.59, Area: "MG Road"},
		Status:      models.StatusSubmitted,
		Priority:    models.PriorityMedium,
		CreatorID:   creatorID,
	}
	require.NoError(t, db.Omit("Creator", "Assignee").Create(complaint).Error)
	return complaint
}
