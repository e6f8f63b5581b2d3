package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError 验证错误结构
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: %v", ve.Errors)
}

// FormatBindingError 将请求绑定/校验错误转换为对外可读的消息
// 非校验类错误不回显内部细节
func FormatBindingError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return formatValidationErrors(validationErrors).Error()
	}
	return "Invalid request payload"
}

// formatValidationErrors 格式化验证错误信息
func formatValidationErrors(errs []validator.FieldError) error {
	errorMap := make(map[string]string)
	for _, err := range errs {
		errorMap[err.Field()] = getErrorMessage(err.Field(), err.Tag(), err.Param())
	}
	return &ValidationError{Errors: errorMap}
}

// getErrorMessage 获取错误消息
func getErrorMessage(field, tag, param string) string {
	errorMessages := map[string]string{
		"required": "%s is required",
		"email":    "%s must be a valid email address",
		"min":      "%s must be at least %s characters",
		"max":      "%s must be at most %s characters",
		"gte":      "%s must be greater than or equal to %s",
		"lte":      "%s must be less than or equal to %s",
		"oneof":    "%s must be one of: %s",
	}

	template, exists := errorMessages[tag]
	if !exists {
		return fmt.Sprintf("%s is invalid", field)
	}
	return fmt.Sprintf(template, field, param)
}
