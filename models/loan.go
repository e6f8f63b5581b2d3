package models

import (
	"time"

	"gorm.io/gorm"
)

// Loan 借阅记录模型
// Returned=false 表示在借；同一本书同一时刻最多一条在借记录，
// 借出/归还与书籍 Status 在同一事务内联动。
type Loan struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string     `gorm:"type:varchar(36);not null;index:idx_loans_user_book" json:"userId"`
	BookID     string     `gorm:"type:varchar(36);not null;index:idx_loans_user_book;index" json:"bookId"`
	DueDate    time.Time  `gorm:"not null;index" json:"dueDate"`
	Returned   bool       `gorm:"default:false;index" json:"returned"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"` // 归还后写入，之后不再变更

	// 关联关系
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName 指定表名
func (Loan) TableName() string {
	return "loans"
}

// BeforeCreate 创建前钩子
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	if l.BorrowedAt.IsZero() {
		l.BorrowedAt = time.Now()
	}
	return nil
}
