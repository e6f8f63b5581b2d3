package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMostBorrowedBooksRanking(t *testing.T) {
	setupTestDB(t)
	svc := NewAnalyticsService()

	user := createTestUser(t, "reader", "reader@example.com")
	popular := createTestBook(t, "Dune", "SciFi")
	niche := createTestBook(t, "Obscure Poetry", "Poetry")
	createTestBook(t, "Never Borrowed", "Drama")

	due := time.Now().AddDate(0, 0, 7)
	for i := 0; i < 3; i++ {
		createTestLoan(t, user.ID, popular.ID, due, true)
	}
	createTestLoan(t, user.ID, niche.ID, due, false)

	stats, total, err := svc.GetMostBorrowedBooks(1, 10)
	require.NoError(t, err)

	// total counts distinct borrowed books, not loan rows
	assert.EqualValues(t, 2, total)
	require.Len(t, stats, 2)
	assert.Equal(t, popular.ID, stats[0].BookID)
	assert.Equal(t, "Dune", stats[0].Title)
	assert.EqualValues(t, 3, stats[0].BorrowCount)
	assert.Equal(t, niche.ID, stats[1].BookID)
	assert.EqualValues(t, 1, stats[1].BorrowCount)
}

func TestGetActiveUsersRanking(t *testing.T) {
	setupTestDB(t)
	svc := NewAnalyticsService()

	alice := createTestUser(t, "alice", "alice@example.com")
	bob := createTestUser(t, "bob", "bob@example.com")
	createTestUser(t, "idle", "idle@example.com")
	book := createTestBook(t, "Dune", "SciFi")

	due := time.Now().AddDate(0, 0, 7)
	createTestLoan(t, alice.ID, book.ID, due, true)
	createTestLoan(t, alice.ID, book.ID, due, true)
	createTestLoan(t, bob.ID, book.ID, due, false)

	stats, total, err := svc.GetActiveUsers(1, 10)
	require.NoError(t, err)

	assert.EqualValues(t, 2, total)
	require.Len(t, stats, 2)
	assert.Equal(t, alice.ID, stats[0].UserID)
	assert.Equal(t, "alice", stats[0].Username)
	assert.EqualValues(t, 2, stats[0].BorrowCount)
	assert.Equal(t, bob.ID, stats[1].UserID)
	assert.EqualValues(t, 1, stats[1].BorrowCount)
}

func TestGetGenrePopularity(t *testing.T) {
	setupTestDB(t)
	svc := NewAnalyticsService()

	user := createTestUser(t, "reader", "reader@example.com")
	dune := createTestBook(t, "Dune", "SciFi")
	foundation := createTestBook(t, "Foundation", "SciFi")
	poems := createTestBook(t, "Poems", "Poetry")

	due := time.Now().AddDate(0, 0, 7)
	createTestLoan(t, user.ID, dune.ID, due, true)
	createTestLoan(t, user.ID, foundation.ID, due, true)
	createTestLoan(t, user.ID, poems.ID, due, false)

	stats, total, err := svc.GetGenrePopularity(1, 10)
	require.NoError(t, err)

	// total counts distinct genres with at least one loan
	assert.EqualValues(t, 2, total)
	require.Len(t, stats, 2)
	assert.Equal(t, "SciFi", stats[0].Genre)
	assert.EqualValues(t, 2, stats[0].BorrowCount)
	assert.Equal(t, "Poetry", stats[1].Genre)
	assert.EqualValues(t, 1, stats[1].BorrowCount)
}
