package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

// --- Shared test fixtures ---

// setupTestDB points the service layer at an isolated in-memory database.
// Each test gets its own schema; the redis client is cleared so caching
// degrades to pass-through.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	config.DB = db
	config.RedisClient = nil

	return db
}

func createTestUser(t *testing.T, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hashed",
		Role:      models.RoleUser,
	}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, title, genre string) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:           title,
		Author:          "Test Author",
		Genre:           genre,
		PublicationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:          models.BookStatusAvailable,
	}
	require.NoError(t, config.DB.Create(book).Error)
	return book
}

func createTestLoan(t *testing.T, userID, bookID string, dueDate time.Time, returned bool) *models.Loan {
	t.Helper()

	loan := &models.Loan{
		UserID:   userID,
		BookID:   bookID,
		DueDate:  dueDate,
		Returned: returned,
	}
	require.NoError(t, config.DB.Create(loan).Error)
	return loan
}
