package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

// 书评相关错误
var (
	ErrInvalidRating   = errors.New("rating must be an integer between 1 and 5")
	ErrDuplicateReview = errors.New("user has already reviewed this book")
)

// ReviewService 书评服务
type ReviewService struct{}

// NewReviewService 创建书评服务实例
func NewReviewService() *ReviewService {
	return &ReviewService{}
}

// ReviewWithUser 书评及评论者公开信息
// 评论者已不存在时 User 为空，书评本身仍然返回
type ReviewWithUser struct {
	ID        string             `json:"id"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	User      *models.PublicUser `json:"user,omitempty"`
}

// AddReview 添加书评并同步重算书籍的平均分和评论数
// 重复书评不做前置检查，由 (bookId, userId) 唯一索引拒绝；
// 书评写入与聚合更新在同一事务内完成。
func (rs *ReviewService) AddReview(userID, bookID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var review models.Review
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 写入书评
		review = models.Review{
			UserID:  userID,
			BookID:  bookID,
			Rating:  rating,
			Comment: comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		// 2. 全量重算该书的平均分和评论数（以正确性优先，重算天然幂等）
		var agg struct {
			Avg float64
			Cnt int64
		}
		if err := tx.Model(&models.Review{}).
			Where("book_id = ?", bookID).
			Select("AVG(rating) AS avg, COUNT(*) AS cnt").
			Scan(&agg).Error; err != nil {
			return err
		}

		// 3. 持久化派生字段
		return tx.Model(&models.Book{}).
			Where("id = ?", bookID).
			Updates(map[string]interface{}{
				"average_rating": agg.Avg,
				"review_count":   agg.Cnt,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	// 评分聚合写到了书籍记录上，缓存的目录/搜索页需要失效
	go clearBookCaches()

	return &review, nil
}

// GetBookReviews 获取书籍概要和分页书评（最新的在前）
// 书籍不存在时返回空结果而不是错误
func (rs *ReviewService) GetBookReviews(bookID string, page, limit int) (*models.Book, []ReviewWithUser, int64, error) {
	// 1. 查询书籍概要
	var book models.Book
	if err := config.DB.First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []ReviewWithUser{}, 0, nil
		}
		return nil, nil, 0, err
	}

	// 2. 查询书评并左连接评论者公开字段
	var rows []struct {
		ID            string
		Rating        int
		Comment       string
		CreatedAt     time.Time
		UserID        string
		UserUsername  string
		UserFirstName string
		UserLastName  string
	}
	if err := config.DB.Table("reviews").
		Select("reviews.id, reviews.rating, reviews.comment, reviews.created_at, "+
			"users.id AS user_id, users.username AS user_username, "+
			"users.first_name AS user_first_name, users.last_name AS user_last_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	reviews := make([]ReviewWithUser, 0, len(rows))
	for _, row := range rows {
		r := ReviewWithUser{
			ID:        row.ID,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		}
		// 评论者已无法解析时保留书评本身
		if row.UserID != "" {
			r.User = &models.PublicUser{
				ID:        row.UserID,
				Username:  row.UserUsername,
				FirstName: row.UserFirstName,
				LastName:  row.UserLastName,
			}
		}
		reviews = append(reviews, r)
	}

	// 3. 查询书评总数
	var total int64
	if err := config.DB.Model(&models.Review{}).Where("book_id = ?", bookID).Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	return &book, reviews, total, nil
}
