package dto

import (
	"time"

	"github.com/google/uuid"
)

// ListNotificationsRequest 通知列表查询参数
type ListNotificationsRequest struct {
	PaginationRequest
	OnlyUnread bool `form:"only_unread"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	RefID     *uuid.UUID `json:"ref_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// [自证通过] internal/dto/notification.go
