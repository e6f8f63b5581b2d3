package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minilibrary_go/models"
)

func TestAddWishlistDuplicateAcrossStatuses(t *testing.T) {
	setupTestDB(t)
	svc := NewWishlistService()

	user := createTestUser(t, "reader", "reader@example.com")
	book := createTestBook(t, "Dune", "SciFi")

	item, err := svc.AddWishlist(user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WishlistStatusActive, item.Status)

	_, err = svc.AddWishlist(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrDuplicateWishlist)

	// soft deletion does not free the (user, book) pair
	_, err = svc.SoftDeleteWishlistItem(item.ID)
	require.NoError(t, err)

	_, err = svc.AddWishlist(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrDuplicateWishlist)
}

func TestSoftDeleteWishlistItemIdempotent(t *testing.T) {
	setupTestDB(t)
	svc := NewWishlistService()

	user := createTestUser(t, "reader", "reader@example.com")
	book := createTestBook(t, "Dune", "SciFi")

	item, err := svc.AddWishlist(user.ID, book.ID)
	require.NoError(t, err)

	first, err := svc.SoftDeleteWishlistItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WishlistStatusDeleted, first.Status)

	second, err := svc.SoftDeleteWishlistItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WishlistStatusDeleted, second.Status)

	_, err = svc.SoftDeleteWishlistItem("no-such-item")
	assert.ErrorIs(t, err, ErrWishlistNotFound)
}

func TestFetchWishlistReturnsActiveOnly(t *testing.T) {
	setupTestDB(t)
	svc := NewWishlistService()

	user := createTestUser(t, "reader", "reader@example.com")
	other := createTestUser(t, "other", "other@example.com")
	dune := createTestBook(t, "Dune", "SciFi")
	lotr := createTestBook(t, "The Lord of the Rings", "Fantasy")

	kept, err := svc.AddWishlist(user.ID, dune.ID)
	require.NoError(t, err)
	removed, err := svc.AddWishlist(user.ID, lotr.ID)
	require.NoError(t, err)
	_, err = svc.AddWishlist(other.ID, dune.ID)
	require.NoError(t, err)

	_, err = svc.SoftDeleteWishlistItem(removed.ID)
	require.NoError(t, err)

	items, total, err := svc.FetchWishlist(user.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
	assert.Equal(t, "Dune", items[0].Book.Title)
	assert.Equal(t, "SciFi", items[0].Book.Genre)
}
