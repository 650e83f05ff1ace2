package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rewear/backend/internal/dto"
	"rewear/backend/internal/model"
	"rewear/backend/internal/repository"
)

// ErrNotificationNotFound 通知不存在或不属于当前用户
var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 通知服务接口
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, req *dto.ListNotificationsRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// notifyTx 在事务内写入一条通知
// 与触发它的业务变更同事务提交，保证状态与通知的一致性
func notifyTx(ctx context.Context, tx *repository.Repository, userID uuid.UUID, ntype, title, content string, refID *uuid.UUID) error {
	return tx.Notification.Create(ctx, &model.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Content: content,
		RefID:   refID,
	})
}

// ────────────────────── List ──────────────────────

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, req *dto.ListNotificationsRequest) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, userID, req.OnlyUnread, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, toNotificationResponse(&notifications[i]))
	}
	return result, total, nil
}

// ────────────────────── UnreadCount ──────────────────────

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

// ────────────────────── MarkRead ──────────────────────

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.repo.Notification.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// ────────────────────── MarkAllRead ──────────────────────

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

// ────────────────────── Delete ──────────────────────

func (s *notificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.repo.Notification.Delete(ctx, notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		RefID:     n.RefID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// [自证通过] internal/service/notification_service.go
