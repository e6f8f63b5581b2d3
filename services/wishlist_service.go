package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

// 心愿单相关错误
var (
	ErrDuplicateWishlist = errors.New("book is already in the wishlist")
	ErrWishlistNotFound  = errors.New("wishlist item not found")
)

// WishlistService 心愿单服务
type WishlistService struct{}

// NewWishlistService 创建心愿单服务实例
func NewWishlistService() *WishlistService {
	return &WishlistService{}
}

// WishlistItemView 心愿单条目及书籍概要
type WishlistItemView struct {
	ID     string                `json:"id"`
	UserID string                `json:"userId"`
	BookID string                `json:"bookId"`
	Status models.WishlistStatus `json:"status"`
	Book   struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Genre  string `json:"genre"`
	} `json:"book"`
}

// AddWishlist 添加心愿单条目
// (userId, bookId) 唯一索引对所有状态生效，软删除后的条目同样挡住重加
func (ws *WishlistService) AddWishlist(userID, bookID string) (*models.Wishlist, error) {
	item := models.Wishlist{
		UserID: userID,
		BookID: bookID,
		Status: models.WishlistStatusActive,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateWishlist
		}
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return &item, nil
}

// FetchWishlist 分页获取用户的有效心愿单条目（按插入顺序），带书籍概要
func (ws *WishlistService) FetchWishlist(userID string, page, limit int) ([]WishlistItemView, int64, error) {
	// 1. 获取有效条目总数
	var total int64
	if err := config.DB.Model(&models.Wishlist{}).
		Where("user_id = ? AND status = ?", userID, models.WishlistStatusActive).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}

	// 2. 查询条目并连接书籍概要
	var rows []struct {
		ID     string
		UserID string
		BookID string
		Status models.WishlistStatus
		Title  string
		Author string
		Genre  string
	}
	if err := config.DB.Table("wishlists").
		Select("wishlists.id, wishlists.user_id, wishlists.book_id, wishlists.status, "+
			"books.title, books.author, books.genre").
		Joins("LEFT JOIN books ON books.id = wishlists.book_id").
		Where("wishlists.user_id = ? AND wishlists.status = ?", userID, models.WishlistStatusActive).
		Order("wishlists.created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch wishlist: %w", err)
	}

	items := make([]WishlistItemView, 0, len(rows))
	for _, row := range rows {
		item := WishlistItemView{
			ID:     row.ID,
			UserID: row.UserID,
			BookID: row.BookID,
			Status: row.Status,
		}
		item.Book.Title = row.Title
		item.Book.Author = row.Author
		item.Book.Genre = row.Genre
		items = append(items, item)
	}

	return items, total, nil
}

// SoftDeleteWishlistItem 软删除心愿单条目
// 幂等：对已删除的条目重复调用不报错、状态不变
func (ws *WishlistService) SoftDeleteWishlistItem(id string) (*models.Wishlist, error) {
	var item models.Wishlist
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWishlistNotFound
		}
		return nil, err
	}

	if item.Status == models.WishlistStatusDeleted {
		return &item, nil
	}

	if err := config.DB.Model(&item).Update("status", models.WishlistStatusDeleted).Error; err != nil {
		return nil, fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	item.Status = models.WishlistStatusDeleted
	return &item, nil
}
