package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"minilibrary_go/services"
	"minilibrary_go/utils"
)

// BookController 书籍控制器
type BookController struct {
	bookService *services.BookService
	penaltyRate float64
}

// NewBookController 创建书籍控制器实例
func NewBookController(bookService *services.BookService, penaltyRate float64) *BookController {
	return &BookController{
		bookService: bookService,
		penaltyRate: penaltyRate,
	}
}

// parsePagination 解析分页参数，非法或缺省时回退到 page=1 limit=10
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

// FetchBooks 分页获取书籍列表
// @Summary 获取书籍列表
// @Tags books
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.Response
// @Router /books/fetch [get]
func (bc *BookController) FetchBooks(c *gin.Context) {
	page, limit := parsePagination(c)

	books, total, err := bc.bookService.FetchBooks(page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch books")
		return
	}

	utils.Success(c, http.StatusOK, "Books fetched successfully", gin.H{
		"books":      books,
		"pagination": utils.NewPageData(total, page, limit),
	})
}

// SearchBooks 按条件搜索书籍
// @Summary 搜索书籍
// @Tags books
// @Produce json
// @Param title query string false "标题模糊匹配"
// @Param genre query string false "类型精确匹配"
// @Param startDate query string false "出版起始日期 YYYY-MM-DD"
// @Param endDate query string false "出版截止日期 YYYY-MM-DD"
// @Success 200 {object} utils.Response
// @Router /books/search [get]
func (bc *BookController) SearchBooks(c *gin.Context) {
	page, limit := parsePagination(c)

	filters := services.SearchFilters{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
	}

	// 日期参数解析失败时忽略该条件
	if raw := c.Query("startDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filters.StartDate = &t
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filters.EndDate = &t
		}
	}

	books, total, err := bc.bookService.SearchBooks(filters, page, limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to search books")
		return
	}

	utils.Success(c, http.StatusOK, "Books fetched successfully", gin.H{
		"books":      books,
		"pagination": utils.NewPageData(total, page, limit),
	})
}

// AddBook 新增书籍（仅管理员）
// @Summary 新增书籍
// @Tags books
// @Accept json
// @Produce json
// @Param request body services.CreateBookRequest true "书籍信息"
// @Success 201 {object} utils.Response
// @Router /books/add [post]
func (bc *BookController) AddBook(c *gin.Context) {
	var req services.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	actorID := c.GetString("user_id")
	book, err := bc.bookService.AddBook(actorID, &req)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to add book")
		return
	}

	utils.Success(c, http.StatusCreated, "Book added successfully", book)
}

// UpdateBook 更新书籍（仅管理员）
// @Summary 更新书籍
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "书籍ID"
// @Success 200 {object} utils.Response
// @Router /books/update/{id} [put]
func (bc *BookController) UpdateBook(c *gin.Context) {
	var req services.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	actorID := c.GetString("user_id")
	book, err := bc.bookService.UpdateBook(actorID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			utils.Error(c, http.StatusNotFound, "Book not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to update book")
		return
	}

	utils.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook 软删除书籍（仅管理员）
// @Summary 删除书籍
// @Tags books
// @Produce json
// @Param id path string true "书籍ID"
// @Success 200 {object} utils.Response
// @Router /books/delete/{id} [delete]
func (bc *BookController) DeleteBook(c *gin.Context) {
	actorID := c.GetString("user_id")
	book, err := bc.bookService.SoftDeleteBook(actorID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			utils.Error(c, http.StatusNotFound, "Book not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to delete book")
		return
	}

	utils.Success(c, http.StatusOK, "Book deleted successfully", book)
}

// BorrowBook 借阅书籍
// @Summary 借阅书籍
// @Tags books
// @Produce json
// @Param id path string true "书籍ID"
// @Param days path int false "借阅天数，默认7天"
// @Success 200 {object} utils.Response
// @Router /books/borrow/{id} [get]
func (bc *BookController) BorrowBook(c *gin.Context) {
	// 天数缺省为7天，路径参数非法时交给服务层校验
	days := 7
	if raw := c.Param("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid number of days")
			return
		}
		days = parsed
	}

	userID := c.GetString("user_id")
	loan, err := bc.bookService.BorrowBook(c.Param("id"), userID, days)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			utils.Error(c, http.StatusNotFound, "Book not found")
		case errors.Is(err, services.ErrBookUnavailable):
			utils.Error(c, http.StatusConflict, "Book is not available for borrowing")
		case errors.Is(err, services.ErrInvalidLoanDays):
			utils.Error(c, http.StatusBadRequest, "Invalid number of days")
		default:
			utils.Error(c, http.StatusInternalServerError, "Failed to borrow book")
		}
		return
	}

	utils.Success(c, http.StatusOK, "Book borrowed successfully", loan)
}

// ReturnBook 归还书籍并结算逾期罚金
// @Summary 归还书籍
// @Tags books
// @Produce json
// @Param id path string true "借阅ID"
// @Success 200 {object} utils.Response
// @Router /books/return/{id} [get]
func (bc *BookController) ReturnBook(c *gin.Context) {
	loanID := c.Param("id")

	// 1. 先按当前时间结算罚金
	daysOverdue, penalty, err := bc.bookService.CalculatePenaltyForLoan(loanID, bc.penaltyRate)
	if err != nil {
		bc.respondReturnError(c, err)
		return
	}

	// 2. 再关闭借阅并恢复书籍状态
	book, err := bc.bookService.ReturnBook(loanID)
	if err != nil {
		bc.respondReturnError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, "Book returned successfully", gin.H{
		"book":        book,
		"daysOverdue": daysOverdue,
		"penalty":     penalty,
	})
}

func (bc *BookController) respondReturnError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLoanNotFound):
		utils.Error(c, http.StatusNotFound, "Loan record not found")
	case errors.Is(err, services.ErrLoanAlreadyReturned):
		utils.Error(c, http.StatusNotFound, "Loan record not found")
	default:
		utils.Error(c, http.StatusInternalServerError, "Failed to return book")
	}
}
