package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

// --- Aggregate recomputation ---

func TestAddReviewRecomputesAggregates(t *testing.T) {
	setupTestDB(t)
	svc := NewReviewService()

	book := createTestBook(t, "Dune", "SciFi")
	ratings := []int{5, 3, 4}
	wantAvg := []float64{5.0, 4.0, 4.0}

	for i, rating := range ratings {
		user := createTestUser(t, "", "reviewer"+string(rune('a'+i))+"@example.com")
		_, err := svc.AddReview(user.ID, book.ID, rating, "solid read")
		require.NoError(t, err)

		var reloaded models.Book
		require.NoError(t, config.DB.First(&reloaded, "id = ?", book.ID).Error)
		assert.InDelta(t, wantAvg[i], reloaded.AverageRating, 1e-9)
		assert.EqualValues(t, i+1, reloaded.ReviewCount)
	}
}

func TestAddReviewDuplicateRejected(t *testing.T) {
	setupTestDB(t)
	svc := NewReviewService()

	user := createTestUser(t, "reviewer", "reviewer@example.com")
	book := createTestBook(t, "Dune", "SciFi")

	_, err := svc.AddReview(user.ID, book.ID, 5, "")
	require.NoError(t, err)

	_, err = svc.AddReview(user.ID, book.ID, 1, "changed my mind")
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// aggregates must still reflect only the first review
	var reloaded models.Book
	require.NoError(t, config.DB.First(&reloaded, "id = ?", book.ID).Error)
	assert.InDelta(t, 5.0, reloaded.AverageRating, 1e-9)
	assert.EqualValues(t, 1, reloaded.ReviewCount)
}

func TestAddReviewRatingRange(t *testing.T) {
	setupTestDB(t)
	svc := NewReviewService()

	user := createTestUser(t, "reviewer", "reviewer@example.com")
	book := createTestBook(t, "Dune", "SciFi")

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(user.ID, book.ID, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
}

// --- Review listing ---

func TestGetBookReviewsMissingBook(t *testing.T) {
	setupTestDB(t)
	svc := NewReviewService()

	book, reviews, total, err := svc.GetBookReviews("no-such-book", 1, 10)
	require.NoError(t, err)
	assert.Nil(t, book)
	assert.Empty(t, reviews)
	assert.EqualValues(t, 0, total)
}

func TestGetBookReviewsNewestFirstWithUnresolvedReviewer(t *testing.T) {
	setupTestDB(t)
	svc := NewReviewService()

	user := createTestUser(t, "reviewer", "reviewer@example.com")
	book := createTestBook(t, "Dune", "SciFi")

	older := models.Review{
		UserID:    user.ID,
		BookID:    book.ID,
		Rating:    4,
		Comment:   "good",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, config.DB.Create(&older).Error)

	// reviewer account no longer resolves
	orphaned := models.Review{
		UserID:    "gone-user",
		BookID:    book.ID,
		Rating:    2,
		Comment:   "meh",
		CreatedAt: time.Now(),
	}
	require.NoError(t, config.DB.Create(&orphaned).Error)

	gotBook, reviews, total, err := svc.GetBookReviews(book.ID, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, gotBook)
	assert.Equal(t, book.ID, gotBook.ID)
	assert.EqualValues(t, 2, total)
	require.Len(t, reviews, 2)

	// newest first; the orphaned review is kept with an empty user
	assert.Equal(t, orphaned.ID, reviews[0].ID)
	assert.Nil(t, reviews[0].User)
	assert.Equal(t, older.ID, reviews[1].ID)
	require.NotNil(t, reviews[1].User)
	assert.Equal(t, "reviewer", reviews[1].User.Username)
}
