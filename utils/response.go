package utils

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// Status 为HTTP状态码对应的文案（如 "OK"、"Not Found"）
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Status:  http.StatusText(code),
		Message: message,
		Data:    data,
	})
}

// Error 错误响应（不回显内部错误细节）
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Status:  http.StatusText(code),
		Message: message,
	})
}

// ErrorWithDetail 带错误详情的错误响应（仅用于参数校验类错误）
func ErrorWithDetail(c *gin.Context, code int, message, detail string) {
	c.JSON(code, Response{
		Status:  http.StatusText(code),
		Message: message,
		Error:   detail,
	})
}

// TotalPages 计算总页数
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(limit)))
}

// PageData 分页数据载体
type PageData struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// NewPageData 构建分页元数据
func NewPageData(total int64, page, limit int) PageData {
	return PageData{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}
