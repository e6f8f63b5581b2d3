package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"minilibrary_go/services"
	"minilibrary_go/utils"
)

// AuthController 认证控制器
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController 创建认证控制器实例
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，角色默认为User
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "注册信息"
// @Success 201 {object} utils.Response
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	user, err := ac.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			utils.Error(c, http.StatusConflict, "User already exists")
		case errors.Is(err, services.ErrInvalidRole):
			utils.Error(c, http.StatusBadRequest, "Invalid role")
		default:
			utils.Error(c, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	// 注册成功不返回token，需要再走登录流程
	utils.Success(c, http.StatusCreated, "User created successfully", user.Public())
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用用户名或邮箱登录，返回JWT令牌
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "登录信息"
// @Success 200 {object} utils.Response
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	token, user, err := ac.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	utils.Success(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user.Public(),
	})
}
