package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"minilibrary_go/services"
	"minilibrary_go/utils"
)

// WishlistController 心愿单控制器
type WishlistController struct {
	wishlistService *services.WishlistService
}

// NewWishlistController 创建心愿单控制器实例
func NewWishlistController(wishlistService *services.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

// AddWishlistRequest 添加心愿单请求
type AddWishlistRequest struct {
	UserID string `json:"userId" binding:"required"`
	BookID string `json:"bookId" binding:"required"`
}

// AddWishlist 添加心愿单条目
// @Summary 添加心愿单条目
// @Description 同一用户同一本书只能有一条记录，历史软删除记录同样占用唯一约束
// @Tags wishlist
// @Accept json
// @Produce json
// @Param request body AddWishlistRequest true "心愿单条目"
// @Success 201 {object} utils.Response
// @Router /wishlist/add [post]
func (wc *WishlistController) AddWishlist(c *gin.Context) {
	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	item, err := wc.wishlistService.AddWishlist(req.UserID, req.BookID)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateWishlist) {
			utils.Error(c, http.StatusConflict, "Book is already in the wishlist")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to add to wishlist")
		return
	}

	utils.Success(c, http.StatusCreated, "Added to wishlist successfully", item)
}

// FetchWishlist 分页获取用户的有效心愿单
// @Summary 获取用户心愿单
// @Tags wishlist
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.Response
// @Router /wishlist/fetch/{id} [get]
func (wc *WishlistController) FetchWishlist(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := wc.wishlistService.FetchWishlist(c.Param("id"), page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}

	utils.Success(c, http.StatusOK, "Wishlist fetched successfully", gin.H{
		"wishlist":   items,
		"pagination": utils.NewPageData(total, page, limit),
	})
}

// DeleteWishlistItem 软删除心愿单条目（幂等）
// @Summary 删除心愿单条目
// @Tags wishlist
// @Produce json
// @Param id path string true "心愿单条目ID"
// @Success 200 {object} utils.Response
// @Router /wishlist/delete/{id} [delete]
func (wc *WishlistController) DeleteWishlistItem(c *gin.Context) {
	item, err := wc.wishlistService.SoftDeleteWishlistItem(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrWishlistNotFound) {
			utils.Error(c, http.StatusNotFound, "Wishlist item not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to delete wishlist item")
		return
	}

	utils.Success(c, http.StatusOK, "Wishlist item removed successfully", item)
}
