package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"minilibrary_go/services"
	"minilibrary_go/utils"
)

// ReviewController 书评控制器
type ReviewController struct {
	reviewService *services.ReviewService
}

// NewReviewController 创建书评控制器实例
func NewReviewController(reviewService *services.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// AddReviewRequest 新增书评请求
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// AddReview 新增书评
// @Summary 新增书评
// @Description 每个用户对一本书只能评价一次，成功后同步更新书籍评分汇总
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "书籍ID"
// @Param request body AddReviewRequest true "评价内容"
// @Success 201 {object} utils.Response
// @Router /reviews/add/{id} [post]
func (rc *ReviewController) AddReview(c *gin.Context) {
	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	userID := c.GetString("user_id")
	review, err := rc.reviewService.AddReview(userID, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			utils.Error(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		case errors.Is(err, services.ErrDuplicateReview):
			utils.Error(c, http.StatusConflict, "You have already reviewed this book")
		default:
			utils.Error(c, http.StatusInternalServerError, "Failed to add review")
		}
		return
	}

	utils.Success(c, http.StatusCreated, "Review added successfully", review)
}

// GetBookReviews 分页获取指定书籍的书评
// @Summary 获取书籍书评
// @Tags reviews
// @Produce json
// @Param id path string true "书籍ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.Response
// @Router /reviews/fetch/{id} [get]
func (rc *ReviewController) GetBookReviews(c *gin.Context) {
	page, limit := parsePagination(c)

	book, reviews, total, err := rc.reviewService.GetBookReviews(c.Param("id"), page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	utils.Success(c, http.StatusOK, "Reviews fetched successfully", gin.H{
		"book": book,
		"allReviews": gin.H{
			"reviews":    reviews,
			"total":      total,
			"page":       page,
			"totalPages": utils.TotalPages(total, limit),
		},
	})
}
