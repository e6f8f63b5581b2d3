package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minilibrary_go/services"
	"minilibrary_go/utils"
)

// AnalyticsController 统计分析控制器（仅管理员）
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsController 创建统计分析控制器实例
func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// MostBorrowedBooks 借阅次数最多的书籍排行
// @Summary 借阅排行
// @Tags analytics
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.Response
// @Router /analytics/most-borrowed-books [get]
func (ac *AnalyticsController) MostBorrowedBooks(c *gin.Context) {
	page, limit := parsePagination(c)

	stats, total, err := ac.analyticsService.GetMostBorrowedBooks(page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	utils.Success(c, http.StatusOK, "Most borrowed books fetched successfully", gin.H{
		"books":      stats,
		"pagination": utils.NewPageData(total, page, limit),
	})
}

// ActiveUsers 借阅最活跃的用户排行
// @Summary 活跃用户排行
// @Tags analytics
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.Response
// @Router /analytics/active-users [get]
func (ac *AnalyticsController) ActiveUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	stats, total, err := ac.analyticsService.GetActiveUsers(page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	utils.Success(c, http.StatusOK, "Active users fetched successfully", gin.H{
		"users":      stats,
		"pagination": utils.NewPageData(total, page, limit),
	})
}

// GenrePopularity 按类型统计借阅热度
// @Summary 类型热度统计
// @Tags analytics
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.Response
// @Router /analytics/genre-popularity [get]
func (ac *AnalyticsController) GenrePopularity(c *gin.Context) {
	page, limit := parsePagination(c)

	stats, total, err := ac.analyticsService.GetGenrePopularity(page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	utils.Success(c, http.StatusOK, "Genre popularity fetched successfully", gin.H{
		"genres":     stats,
		"pagination": utils.NewPageData(total, page, limit),
	})
}
