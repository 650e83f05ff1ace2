package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=128"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
	Address     string `json:"address" binding:"omitempty,max=255"`
}

// RegisterOrganizationRequest 机构注册请求
// 注册后账号立即可登录，但机构身份需管理员审核后方可参与匹配
type RegisterOrganizationRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=64"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	OrgName      string `json:"org_name" binding:"required,max=128"`
	Description  string `json:"description" binding:"omitempty,max=2000"`
	ContactPhone string `json:"contact_phone" binding:"omitempty,max=32"`
	Address      string `json:"address" binding:"omitempty,max=255"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse 令牌响应
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UserProfileResponse 用户信息响应
type UserProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token TokenResponse       `json:"token"`
	User  UserProfileResponse `json:"user"`
}

// [自证通过] internal/dto/auth.go
