package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"minilibrary_go/config"
	"minilibrary_go/models"
)

// 认证相关错误
var (
	ErrUserExists         = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// AuthService 认证服务
type AuthService struct {
	jwtService *config.JWTService
	mailer     Mailer // 可为nil（测试环境）
}

// NewAuthService 创建认证服务实例
func NewAuthService(jwtService *config.JWTService, mailer Mailer) *AuthService {
	return &AuthService{
		jwtService: jwtService,
		mailer:     mailer,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username  string `json:"username" binding:"omitempty,min=3,max=50"`
	FirstName string `json:"firstName" binding:"omitempty,max=50"`
	LastName  string `json:"lastName" binding:"omitempty,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=100"`
	Role      string `json:"role" binding:"omitempty,oneof=Admin User"`
}

// LoginRequest 登录请求
// Username 字段同时接受用户名或邮箱
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
func (as *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	// 1. 角色默认为 User，只接受封闭枚举内的取值
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	// 2. 检查邮箱是否已存在
	var existingUser models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, ErrUserExists
	}

	// 3. 检查用户名是否已存在（用户名可选）
	// 用户名列不是唯一索引（多个未填用户名的账号会共用空值），
	// 并发注册同名用户名存在竞态窗口；用户名仅用于展示和登录匹配，
	// 邮箱才是账号的唯一键（唯一索引兜底）
	if req.Username != "" {
		if err := config.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
			return nil, ErrUserExists
		}
	}

	// 4. 密码加密
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 5. 创建用户
	user := models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 6. 异步发送欢迎邮件，支持队列的发送器走队列获得重试
	if as.mailer != nil {
		welcome := &EmailTask{
			ToEmail: user.Email,
			Subject: "Welcome to the Library",
			Body:    "Hello,\n\nYour library account has been created successfully.\n\nBest regards,\nLibrary Team",
		}
		if qm, ok := as.mailer.(QueueMailer); ok {
			qm.Queue(welcome)
		} else {
			go func() {
				_ = as.mailer.Send(welcome.ToEmail, welcome.Subject, welcome.Body, welcome.HTMLBody)
			}()
		}
	}

	return &user, nil
}

// Login 用户登录，identifier 匹配用户名或邮箱
// 成功返回签名后的JWT token
func (as *AuthService) Login(req *LoginRequest) (string, *models.User, error) {
	// 1. 查找用户
	var user models.User
	if err := config.DB.
		Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// 2. 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// 3. 生成JWT token
	token, err := as.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, &user, nil
}
