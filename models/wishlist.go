package models

import (
	"time"

	"gorm.io/gorm"
)

// WishlistStatus 心愿单条目状态
type WishlistStatus string

const (
	WishlistStatusActive  WishlistStatus = "Active"
	WishlistStatusDeleted WishlistStatus = "Deleted"
)

// Wishlist 心愿单条目模型
// (UserID, BookID) 唯一索引对所有状态生效，软删除后也不允许重加。
type Wishlist struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlists_user_book" json:"userId"`
	BookID    string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlists_user_book" json:"bookId"`
	Status    WishlistStatus `gorm:"type:varchar(10);default:Active" json:"status"`
	CreatedAt time.Time      `json:"createdAt"`

	// 关联关系
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName 指定表名
func (Wishlist) TableName() string {
	return "wishlists"
}

// BeforeCreate 创建前钩子
func (w *Wishlist) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = generateUUID()
	}
	if w.Status == "" {
		w.Status = WishlistStatusActive
	}
	return nil
}
