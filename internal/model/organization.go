package model

import (
	"time"

	"github.com/google/uuid"
)

// 机构审核状态
const (
	OrgStatusPending  = "pending"  // 待审核
	OrgStatusApproved = "approved" // 已通过
	OrgStatusRejected = "rejected" // 已拒绝
)

// OrganizationAccount 机构账号（注册后需管理员审核）
type OrganizationAccount struct {
	SoftDeleteModel
	UserID          uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	OrgName         string     `gorm:"size:128;not null" json:"org_name"`
	Description     string     `gorm:"not null;default:''" json:"description"`
	ContactPhone    string     `gorm:"size:32;not null;default:''" json:"contact_phone"`
	Address         string     `gorm:"size:255;not null;default:''" json:"address"`
	Status          string     `gorm:"size:32;not null;default:'pending'" json:"status"`
	RejectionReason string     `gorm:"not null;default:''" json:"rejection_reason"`
	ReviewedAt      *time.Time `json:"reviewed_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (OrganizationAccount) TableName() string {
	return "organization_accounts"
}

// [自证通过] internal/model/organization.go
