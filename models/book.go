package models

import (
	"time"

	"gorm.io/gorm"
)

// BookStatus 书籍借阅状态
type BookStatus string

const (
	BookStatusAvailable  BookStatus = "Available"
	BookStatusCheckedOut BookStatus = "Checked Out"
)

// Book 书籍模型
// AverageRating/ReviewCount 为派生字段，随书评写入同步重算。
// 软删除使用显式 Deleted 标志加审计字段，而不是物理删除。
type Book struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(200);not null;index" json:"title"`
	Author          string     `gorm:"type:varchar(100);not null;index" json:"author"`
	Genre           string     `gorm:"type:varchar(50);not null;index:idx_books_genre_pub" json:"genre"`
	PublicationDate time.Time  `gorm:"not null;index:idx_books_genre_pub" json:"publicationDate"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Status          BookStatus `gorm:"type:varchar(20);default:Available" json:"status"`
	AverageRating   float64    `gorm:"default:0" json:"averageRating"`
	ReviewCount     int64      `gorm:"default:0" json:"reviewCount"`
	Deleted         bool       `gorm:"default:false;index" json:"deleted"`
	CreatedBy       string     `gorm:"type:varchar(36)" json:"createdBy,omitempty"`
	UpdatedBy       string     `gorm:"type:varchar(36)" json:"updatedBy,omitempty"`
	DeletedBy       string     `gorm:"type:varchar(36)" json:"deletedBy,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`

	// 关联关系
	Loans   []Loan   `gorm:"foreignKey:BookID" json:"loans,omitempty"`
	Reviews []Review `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

// BeforeCreate 创建前钩子
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = generateUUID()
	}
	if b.Status == "" {
		b.Status = BookStatusAvailable
	}
	return nil
}
