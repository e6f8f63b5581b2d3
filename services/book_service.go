package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"gorm.io/gorm"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

var (
	redisCtx = context.Background()
)

// 借阅/目录相关错误
var (
	ErrBookNotFound        = errors.New("book not found")
	ErrBookUnavailable     = errors.New("book is currently unavailable for borrowing")
	ErrInvalidLoanDays     = errors.New("loan days must be between 1 and 365")
	ErrLoanNotFound        = errors.New("loan record not found or already returned")
	ErrLoanAlreadyReturned = errors.New("loan has already been returned")
)

// BookService 书籍服务（目录查询 + 借阅生命周期）
type BookService struct{}

// NewBookService 创建书籍服务实例
func NewBookService() *BookService {
	return &BookService{}
}

// ==================== 请求结构 ====================

// CreateBookRequest 创建书籍请求
type CreateBookRequest struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Author          string    `json:"author" binding:"required,max=100"`
	Genre           string    `json:"genre" binding:"required,max=50"`
	PublicationDate time.Time `json:"publicationDate" binding:"required"`
	Description     string    `json:"description"`
}

// UpdateBookRequest 更新书籍请求
type UpdateBookRequest struct {
	Title           string     `json:"title" binding:"omitempty,max=200"`
	Author          string     `json:"author" binding:"omitempty,max=100"`
	Genre           string     `json:"genre" binding:"omitempty,max=50"`
	PublicationDate *time.Time `json:"publicationDate"`
	Description     string     `json:"description"`
}

// SearchFilters 书籍搜索条件
type SearchFilters struct {
	Title     string
	Author    string
	Genre     string
	StartDate *time.Time
	EndDate   *time.Time
}

// ==================== 目录查询 ====================

// FetchBooks 分页获取未删除的书籍
func (bs *BookService) FetchBooks(page, limit int) ([]models.Book, int64, error) {
	// 1. 尝试从Redis缓存获取
	cacheKey := fmt.Sprintf("books:fetch:%d:%d", page, limit)
	if books, total, ok := bs.cachedBookPage(cacheKey); ok {
		return books, total, nil
	}

	// 2. 查询数据库（排除已删除的书籍）
	var total int64
	if err := config.DB.Model(&models.Book{}).Where("deleted = ?", false).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var books []models.Book
	if err := config.DB.
		Where("deleted = ?", false).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch books: %w", err)
	}

	// 3. 异步缓存结果
	bs.storeBookPage(cacheKey, books, total)

	return books, total, nil
}

// SearchBooks 按条件搜索书籍
// 标题/作者为大小写不敏感的子串匹配，类型精确匹配，出版日期为闭区间
func (bs *BookService) SearchBooks(filters SearchFilters, page, limit int) ([]models.Book, int64, error) {
	// 1. 尝试从Redis缓存获取
	cacheKey := searchCacheKey(filters, page, limit)
	if books, total, ok := bs.cachedBookPage(cacheKey); ok {
		return books, total, nil
	}

	// 2. 构建查询
	query := config.DB.Model(&models.Book{}).Where("deleted = ?", false)

	if filters.Title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filters.Title+"%")
	}
	if filters.Author != "" {
		query = query.Where("LOWER(author) LIKE LOWER(?)", "%"+filters.Author+"%")
	}
	if filters.Genre != "" {
		query = query.Where("genre = ?", filters.Genre)
	}
	if filters.StartDate != nil {
		query = query.Where("publication_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("publication_date <= ?", *filters.EndDate)
	}

	// 3. 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	// 4. 获取数据（按出版日期倒序）
	var books []models.Book
	if err := query.
		Order("publication_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}

	// 5. 异步缓存结果
	bs.storeBookPage(cacheKey, books, total)

	return books, total, nil
}

// ==================== 目录写入 ====================

// AddBook 新增书籍
func (bs *BookService) AddBook(actorID string, req *CreateBookRequest) (*models.Book, error) {
	book := models.Book{
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		PublicationDate: req.PublicationDate,
		Description:     req.Description,
		Status:          models.BookStatusAvailable,
		CreatedBy:       actorID,
		UpdatedBy:       actorID,
	}

	if err := config.DB.Create(&book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	go clearBookCaches()

	return &book, nil
}

// UpdateBook 更新书籍
// 已软删除的书籍不可更新（统一软删除守卫）
func (bs *BookService) UpdateBook(actorID, bookID string, req *UpdateBookRequest) (*models.Book, error) {
	// 1. 查找未删除的书籍
	var book models.Book
	if err := config.DB.Where("id = ? AND deleted = ?", bookID, false).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// 2. 构建更新map
	updates := map[string]interface{}{
		"updated_by": actorID,
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Author != "" {
		updates["author"] = req.Author
	}
	if req.Genre != "" {
		updates["genre"] = req.Genre
	}
	if req.PublicationDate != nil {
		updates["publication_date"] = *req.PublicationDate
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	// 3. 更新数据库
	if err := config.DB.Model(&book).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	// 4. 重新查询更新后的数据
	if err := config.DB.First(&book, "id = ?", bookID).Error; err != nil {
		return nil, err
	}

	go clearBookCaches()

	return &book, nil
}

// SoftDeleteBook 软删除书籍（记录不物理删除，重复删除视为未找到）
func (bs *BookService) SoftDeleteBook(actorID, bookID string) (*models.Book, error) {
	// 1. 查找未删除的书籍
	var book models.Book
	if err := config.DB.Where("id = ? AND deleted = ?", bookID, false).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// 2. 设置删除标志和审计字段
	now := time.Now()
	if err := config.DB.Model(&book).Updates(map[string]interface{}{
		"deleted":    true,
		"deleted_by": actorID,
		"deleted_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}

	book.Deleted = true
	book.DeletedBy = actorID
	book.DeletedAt = &now

	go clearBookCaches()

	return &book, nil
}

// ==================== 借阅生命周期 ====================

// BorrowBook 借阅书籍
// 开放借阅检查、借阅记录创建、书籍状态翻转在同一事务内完成，
// 保证不会出现"有在借记录但书仍显示可借"的中间状态。
func (bs *BookService) BorrowBook(bookID, userID string, days int) (*models.Loan, error) {
	if days < 1 || days > 365 {
		return nil, ErrInvalidLoanDays
	}

	var loan models.Loan
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 书籍必须存在且未删除
		var book models.Book
		if err := tx.Where("id = ? AND deleted = ?", bookID, false).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		// 2. 同一本书同一时刻最多一条在借记录
		var openLoans int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND returned = ?", bookID, false).
			Count(&openLoans).Error; err != nil {
			return err
		}
		if openLoans > 0 {
			return ErrBookUnavailable
		}

		// 3. 创建借阅记录
		now := time.Now()
		loan = models.Loan{
			UserID:     userID,
			BookID:     bookID,
			DueDate:    now.AddDate(0, 0, days),
			Returned:   false,
			BorrowedAt: now,
		}
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}

		// 4. 书籍状态置为已借出
		return tx.Model(&models.Book{}).
			Where("id = ?", bookID).
			Update("status", models.BookStatusCheckedOut).Error
	})
	if err != nil {
		return nil, err
	}

	go clearBookCaches()

	return &loan, nil
}

// CalculatePenaltyForLoan 计算逾期罚金（纯读操作，不修改任何记录）
// daysOverdue = max(floor((now - dueDate) / 24h), 0)
func (bs *BookService) CalculatePenaltyForLoan(loanID string, dailyRate float64) (int, float64, error) {
	var loan models.Loan
	if err := config.DB.Where("id = ? AND returned = ?", loanID, false).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrLoanNotFound
		}
		return 0, 0, err
	}

	daysOverdue := int(time.Since(loan.DueDate).Hours() / 24)
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	penalty := float64(daysOverdue) * dailyRate

	return daysOverdue, penalty, nil
}

// ReturnBook 归还书籍
// 借阅记录关闭和书籍状态翻转在同一事务内完成，返回更新后的书籍。
func (bs *BookService) ReturnBook(loanID string) (*models.Book, error) {
	var book models.Book
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 查找借阅记录
		var loan models.Loan
		if err := tx.First(&loan, "id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.Returned {
			return ErrLoanAlreadyReturned
		}

		// 2. 关闭借阅记录
		now := time.Now()
		if err := tx.Model(&loan).Updates(map[string]interface{}{
			"returned":    true,
			"returned_at": now,
		}).Error; err != nil {
			return err
		}

		// 3. 书籍状态恢复为可借
		if err := tx.Model(&models.Book{}).
			Where("id = ?", loan.BookID).
			Update("status", models.BookStatusAvailable).Error; err != nil {
			return err
		}

		return tx.First(&book, "id = ?", loan.BookID).Error
	})
	if err != nil {
		return nil, err
	}

	go clearBookCaches()

	return &book, nil
}

// ==================== 缓存辅助方法 ====================

// searchCacheKey 构建搜索结果缓存键
// 各段做URL转义，过滤条件里的冒号不会串段导致不同搜索共用缓存
func searchCacheKey(filters SearchFilters, page, limit int) string {
	return fmt.Sprintf("books:search:%s:%s:%s:%s:%s:%d:%d",
		url.QueryEscape(filters.Title),
		url.QueryEscape(filters.Author),
		url.QueryEscape(filters.Genre),
		cacheDatePart(filters.StartDate),
		cacheDatePart(filters.EndDate),
		page, limit)
}

// cacheDatePart 日期条件的缓存键片段，nil 为空段
func cacheDatePart(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}

// bookPage 书籍分页缓存载体
type bookPage struct {
	Books []models.Book `json:"books"`
	Total int64         `json:"total"`
}

// cachedBookPage 尝试从Redis读取分页缓存
func (bs *BookService) cachedBookPage(key string) ([]models.Book, int64, bool) {
	client := config.RedisClient
	if client == nil {
		return nil, 0, false
	}

	cached, err := client.Get(redisCtx, key).Result()
	if err != nil {
		return nil, 0, false
	}

	var page bookPage
	if json.Unmarshal([]byte(cached), &page) != nil {
		return nil, 0, false
	}
	return page.Books, page.Total, true
}

// storeBookPage 异步缓存分页结果
// 客户端先捕获到局部变量，全局客户端被替换或关闭时写入仍走原实例
func (bs *BookService) storeBookPage(key string, books []models.Book, total int64) {
	client := config.RedisClient
	if client == nil {
		return
	}

	go func() {
		data, _ := json.Marshal(bookPage{Books: books, Total: total})
		client.Set(redisCtx, key, data, 5*time.Minute)
	}()
}

// clearBookCaches 清除书籍相关缓存
// 目录、借阅状态或评分聚合变化后调用
func clearBookCaches() {
	client := config.RedisClient
	if client == nil {
		return
	}

	keys, _ := client.Keys(redisCtx, "books:*").Result()
	for _, key := range keys {
		client.Del(redisCtx, key)
	}
}
