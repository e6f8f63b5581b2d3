package services

import (
	"encoding/json"
	"fmt"
	"time"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

// AnalyticsService 统计分析服务（只读聚合查询）
type AnalyticsService struct{}

// NewAnalyticsService 创建统计分析服务实例
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// BorrowedBookStat 借阅最多的书籍
type BorrowedBookStat struct {
	BookID      string `json:"bookId"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	BorrowCount int64  `json:"borrowCount"`
}

// ActiveUserStat 借阅最活跃的用户
type ActiveUserStat struct {
	UserID      string `json:"userId"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	BorrowCount int64  `json:"borrowCount"`
}

// GenreStat 类型热度
type GenreStat struct {
	Genre       string `json:"genre"`
	BorrowCount int64  `json:"borrowCount"`
}

// GetMostBorrowedBooks 借阅次数最多的书籍（按借阅量倒序，分页）
// 分页总数为分组数，不是借阅记录数
func (as *AnalyticsService) GetMostBorrowedBooks(page, limit int) ([]BorrowedBookStat, int64, error) {
	cacheKey := fmt.Sprintf("analytics:most-borrowed:%d:%d", page, limit)
	if stats, total, ok := cachedStats[BorrowedBookStat](cacheKey); ok {
		return stats, total, nil
	}

	// 1. 分组总数
	var total int64
	if err := config.DB.Model(&models.Loan{}).
		Distinct("book_id").
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count borrowed books: %w", err)
	}

	// 2. 分组、排序、连接书籍元数据
	var stats []BorrowedBookStat
	if err := config.DB.Model(&models.Loan{}).
		Select("loans.book_id AS book_id, books.title, books.author, COUNT(*) AS borrow_count").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("loans.book_id, books.title, books.author").
		Order("borrow_count DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate borrowed books: %w", err)
	}

	storeStats(cacheKey, stats, total)

	return stats, total, nil
}

// GetActiveUsers 借阅最活跃的用户（按借阅量倒序，分页）
func (as *AnalyticsService) GetActiveUsers(page, limit int) ([]ActiveUserStat, int64, error) {
	cacheKey := fmt.Sprintf("analytics:active-users:%d:%d", page, limit)
	if stats, total, ok := cachedStats[ActiveUserStat](cacheKey); ok {
		return stats, total, nil
	}

	// 1. 分组总数
	var total int64
	if err := config.DB.Model(&models.Loan{}).
		Distinct("user_id").
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count active users: %w", err)
	}

	// 2. 分组、排序、连接用户元数据
	var stats []ActiveUserStat
	if err := config.DB.Model(&models.Loan{}).
		Select("loans.user_id AS user_id, users.username, users.first_name, users.last_name, COUNT(*) AS borrow_count").
		Joins("JOIN users ON users.id = loans.user_id").
		Group("loans.user_id, users.username, users.first_name, users.last_name").
		Order("borrow_count DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate active users: %w", err)
	}

	storeStats(cacheKey, stats, total)

	return stats, total, nil
}

// GetGenrePopularity 按借阅量统计的类型热度（倒序，分页）
func (as *AnalyticsService) GetGenrePopularity(page, limit int) ([]GenreStat, int64, error) {
	cacheKey := fmt.Sprintf("analytics:genre-popularity:%d:%d", page, limit)
	if stats, total, ok := cachedStats[GenreStat](cacheKey); ok {
		return stats, total, nil
	}

	// 1. 分组总数（借阅过的不同类型数）
	var total int64
	if err := config.DB.Model(&models.Loan{}).
		Joins("JOIN books ON books.id = loans.book_id").
		Distinct("books.genre").
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	// 2. 借阅记录连接书籍后按类型分组
	var stats []GenreStat
	if err := config.DB.Model(&models.Loan{}).
		Select("books.genre AS genre, COUNT(*) AS borrow_count").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("books.genre").
		Order("borrow_count DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate genre popularity: %w", err)
	}

	storeStats(cacheKey, stats, total)

	return stats, total, nil
}

// ==================== 缓存辅助方法 ====================

// statsPage 统计结果缓存载体
type statsPage[T any] struct {
	Stats []T   `json:"stats"`
	Total int64 `json:"total"`
}

// cachedStats 尝试从Redis读取统计缓存
func cachedStats[T any](key string) ([]T, int64, bool) {
	if config.RedisClient == nil {
		return nil, 0, false
	}

	cached, err := config.RedisClient.Get(redisCtx, key).Result()
	if err != nil {
		return nil, 0, false
	}

	var page statsPage[T]
	if json.Unmarshal([]byte(cached), &page) != nil {
		return nil, 0, false
	}
	return page.Stats, page.Total, true
}

// storeStats 异步缓存统计结果（短TTL，统计允许轻微滞后）
func storeStats[T any](key string, stats []T, total int64) {
	if config.RedisClient == nil {
		return
	}

	go func() {
		data, _ := json.Marshal(statsPage[T]{Stats: stats, Total: total})
		config.RedisClient.Set(redisCtx, key, data, time.Minute)
	}()
}
