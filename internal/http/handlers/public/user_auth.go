package public

import (
	"errors"
	"time"

	"github.com/vesti-shop/internal/http/response"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "邮箱或密码格式无效")
		case errors.Is(err, service.ErrEmailExists):
			response.Conflict(c, "邮箱已注册")
		default:
			logger.Errorw("register failed", "error", err)
			response.Error(c, response.CodeInternal, "注册失败")
		}
		return
	}
	response.Success(c, AuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredential):
			response.Unauthorized(c, "邮箱或密码错误")
		case errors.Is(err, service.ErrUserDisabled):
			response.Unauthorized(c, "账号已被禁用")
		default:
			logger.Errorw("login failed", "error", err)
			response.Error(c, response.CodeInternal, "登录失败")
		}
		return
	}
	response.Success(c, AuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Profile 当前用户信息
func (h *Handler) Profile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "用户不存在")
		default:
			logger.Errorw("get profile failed", "user_id", uid, "error", err)
			response.Error(c, response.CodeInternal, "获取用户信息失败")
		}
		return
	}
	response.Success(c, user)
}
