package models

import (
	"gorm.io/gorm"
)

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid 角色是否合法
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// User 用户模型
type User struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username  string `gorm:"type:varchar(50);index" json:"username,omitempty"` // 可选，非空时唯一（服务层校验）
	FirstName string `gorm:"type:varchar(50)" json:"firstName,omitempty"`
	LastName  string `gorm:"type:varchar(50)" json:"lastName,omitempty"`
	Email     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"` // 不返回给前端
	Role      Role   `gorm:"type:varchar(10);not null" json:"role"`

	// 关联关系
	Loans   []Loan   `gorm:"foreignKey:UserID" json:"loans,omitempty"`
	Reviews []Review `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前钩子
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

// PublicUser 用户公开字段（书评展示等场景）
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Public 返回用户的公开字段
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
