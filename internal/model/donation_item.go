package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DonationStatus 捐赠物品生命周期状态（内部规范值）
type DonationStatus string

const (
	StatusPendingApproval DonationStatus = "pending_approval" // 승인대기
	StatusPendingMatch    DonationStatus = "pending_match"    // 매칭대기
	StatusMatched         DonationStatus = "matched"          // 매칭됨
	StatusDeliveryPending DonationStatus = "delivery_pending" // 배송대기
	StatusDelivered       DonationStatus = "delivered"        // 배송완료
	StatusRejected        DonationStatus = "rejected"         // 거절됨
	StatusCancelled       DonationStatus = "cancelled"        // 취소됨
)

// statusLabels 内部状态到对外展示标签的映射（韩文，接口契约）
var statusLabels = map[DonationStatus]string{
	StatusPendingApproval: "승인대기",
	StatusPendingMatch:    "매칭대기",
	StatusMatched:         "매칭됨",
	StatusDeliveryPending: "배송대기",
	StatusDelivered:       "배송완료",
	StatusRejected:        "거절됨",
	StatusCancelled:       "취소됨",
}

// labelStatuses 反向映射
var labelStatuses = func() map[string]DonationStatus {
	m := make(map[string]DonationStatus, len(statusLabels))
	for s, l := range statusLabels {
		m[l] = s
	}
	return m
}()

// Label 返回对外展示标签
func (s DonationStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid 判断是否为已知状态
func (s DonationStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ErrUnknownStatus 无法识别的物品状态输入
var ErrUnknownStatus = errors.New("未知的物品状态")

// ParseStatus 解析状态输入：接受内部值或展示标签，首尾空白在此边界归一化
func ParseStatus(raw string) (DonationStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if s := DonationStatus(trimmed); s.Valid() {
		return s, nil
	}
	if s, ok := labelStatuses[trimmed]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// 捐赠方式
const (
	DonationMethodAuto   = "auto_match"   // 平台自动匹配
	DonationMethodDirect = "direct_match" // 指定机构
)

// 配送方式（创建时决定，后续不可变）
const (
	DeliveryMethodDirectShip = "direct_ship" // 直接配送
	DeliveryMethodParcel     = "parcel"      // 快递寄送
)

// DonationItem 捐赠物品
type DonationItem struct {
	VersionedModel
	DonorID         uuid.UUID      `gorm:"type:uuid;not null" json:"donor_id"`
	Title           string         `gorm:"size:128;not null" json:"title"`
	Category        string         `gorm:"size:64;not null" json:"category"`
	ItemCondition   string         `gorm:"column:item_condition;size:32;not null" json:"condition"`
	Description     string         `gorm:"not null;default:''" json:"description"`
	Images          StringArray    `gorm:"type:text[];not null;default:'{}'" json:"images"`
	DonationMethod  string         `gorm:"size:32;not null" json:"donation_method"`
	TargetOrgName   string         `gorm:"size:128;not null;default:''" json:"target_org_name"`
	DeliveryMethod  string         `gorm:"size:32;not null" json:"delivery_method"`
	Status          DonationStatus `gorm:"size:32;not null;default:'pending_approval'" json:"status"`
	RejectionReason string         `gorm:"not null;default:''" json:"rejection_reason"`
	PendingOrgName  string         `gorm:"size:128;not null;default:''" json:"pending_org_name"`
	MatchedOrgID    *uuid.UUID     `gorm:"type:uuid" json:"matched_org_id"`
	MatchedOrgName  string         `gorm:"size:128;not null;default:''" json:"matched_org_name"`
	MatchedAt       *time.Time     `json:"matched_at"`
	DeliveredAt     *time.Time     `json:"delivered_at"`

	Donor      *User                `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	MatchedOrg *OrganizationAccount `gorm:"foreignKey:MatchedOrgID" json:"matched_org,omitempty"`
}

// TableName 指定表名
func (DonationItem) TableName() string {
	return "donation_items"
}

// [自证通过] internal/model/donation_item.go
