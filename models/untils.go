package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// generateUUID 生成UUID
func generateUUID() string {
	return uuid.New().String()
}

// Migrate 自动迁移所有模型
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Book{},
		&Loan{},
		&Review{},
		&Wishlist{},
	)
}
