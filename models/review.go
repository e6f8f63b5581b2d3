package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 书评模型
// (BookID, UserID) 唯一索引保证一个用户对一本书只能评一次，
// 重复写入由存储层拒绝后以 ErrDuplicatedKey 形式上抛。
type Review struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_reviews_book_user" json:"userId"`
	BookID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_reviews_book_user" json:"bookId"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// 关联关系
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate 创建前钩子
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = generateUUID()
	}
	return nil
}
