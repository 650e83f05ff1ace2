package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rewear/backend/internal/dto"
	"rewear/backend/internal/model"
	"rewear/backend/internal/repository"
)

var (
	// ErrInviteNotFound 匹配邀请不存在
	ErrInviteNotFound = errors.New("匹配邀请不存在")
	// ErrInviteAlreadyHandled 邀请已被响应或取消
	ErrInviteAlreadyHandled = errors.New("邀请已被处理")
	// ErrPendingInviteExists 物品已有待响应的邀请
	ErrPendingInviteExists = errors.New("该物品已有待响应的邀请")
	// ErrNotInviteRecipient 非邀请接收机构
	ErrNotInviteRecipient = errors.New("无权响应该邀请")
)

// MatchingService 匹配协调服务接口
type MatchingService interface {
	SendInvite(ctx context.Context, req *dto.SendInviteRequest) (*dto.InviteResponse, error)
	GetInvite(ctx context.Context, userID uuid.UUID, role string, inviteID uuid.UUID) (*dto.InviteResponse, error)
	AcceptInvite(ctx context.Context, orgUserID, inviteID uuid.UUID) error
	RejectInvite(ctx context.Context, orgUserID, inviteID uuid.UUID, reason string) error
	ListMyInvites(ctx context.Context, orgUserID uuid.UUID, req *dto.ListInvitesRequest) ([]dto.InviteResponse, int64, error)
}

type matchingService struct {
	repo   *repository.Repository
	txm    repository.TxManager
	logger *zap.Logger
}

// NewMatchingService 创建匹配协调服务
func NewMatchingService(repo *repository.Repository, txm repository.TxManager, logger *zap.Logger) MatchingService {
	return &matchingService{repo: repo, txm: txm, logger: logger}
}

// ── 事务内共享操作 ──
// 审核通过的自动邀请与管理员手动邀请走同一条路径，差别只在是否额外通知捐赠者

// createInviteTx 在事务内创建邀请并通知机构
// 同一物品同一时刻至多一条待响应邀请
func createInviteTx(ctx context.Context, tx *repository.Repository, item *model.DonationItem, org *model.OrganizationAccount, notifyDonor bool) (*model.MatchingInvite, error) {
	if item.Status != model.StatusPendingMatch {
		return nil, invalidTransition(item.Status)
	}

	_, err := tx.Invite.GetPendingByItem(ctx, item.ID)
	if err == nil {
		return nil, ErrPendingInviteExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 邀请携带物品快照，物品后续被编辑不影响机构端看到的内容
	invite := &model.MatchingInvite{
		ItemID:          item.ID,
		OrgID:           org.ID,
		Status:          model.InviteStatusPending,
		ItemTitle:       item.Title,
		ItemCategory:    item.Category,
		ItemCondition:   item.ItemCondition,
		ItemDescription: item.Description,
		DeliveryMethod:  item.DeliveryMethod,
	}
	if err := tx.Invite.Create(ctx, invite); err != nil {
		return nil, err
	}

	// 待确认机构落在物品上，捐赠者的读取路径不必再查邀请
	// 上一轮被拒的痕迹随新邀请清除
	item.PendingOrgName = org.OrgName
	item.RejectionReason = ""
	if err := tx.Donation.Update(ctx, item); err != nil {
		return nil, err
	}

	if err := notifyTx(ctx, tx, org.UserID, model.NotificationTypeAlert,
		"새 매칭 요청",
		fmt.Sprintf("'%s' 물품에 대한 매칭 요청이 도착했습니다.", item.Title),
		&invite.ID,
	); err != nil {
		return nil, err
	}

	if notifyDonor {
		if err := notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
			"매칭 요청 발송",
			fmt.Sprintf("'%s' 물품에 대해 '%s' 기관에 매칭을 요청했습니다.", item.Title, org.OrgName),
			&item.ID,
		); err != nil {
			return nil, err
		}
	}

	return invite, nil
}

// finalizeMatchTx 在事务内完成匹配：物品进入已匹配状态并通知双方
func finalizeMatchTx(ctx context.Context, tx *repository.Repository, item *model.DonationItem, org *model.OrganizationAccount) error {
	if !canTransition(item.Status, model.StatusMatched) {
		return invalidTransition(item.Status)
	}

	now := time.Now()
	item.Status = model.StatusMatched
	item.PendingOrgName = ""
	item.MatchedOrgID = &org.ID
	item.MatchedOrgName = org.OrgName
	item.MatchedAt = &now
	if err := tx.Donation.Update(ctx, item); err != nil {
		return err
	}

	if err := notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
		"매칭 완료",
		fmt.Sprintf("'%s' 물품이 '%s' 기관과 매칭되었습니다.", item.Title, org.OrgName),
		&item.ID,
	); err != nil {
		return err
	}

	return notifyTx(ctx, tx, org.UserID, model.NotificationTypeInfo,
		"매칭 확정",
		fmt.Sprintf("'%s' 물품 매칭이 확정되었습니다.", item.Title),
		&item.ID,
	)
}

// revertRejectedInviteTx 在事务内记录拒绝结果：物品留在匹配队列，通知捐赠者
func revertRejectedInviteTx(ctx context.Context, tx *repository.Repository, invite *model.MatchingInvite, item *model.DonationItem, org *model.OrganizationAccount, reason string) error {
	now := time.Now()
	invite.Status = model.InviteStatusRejected
	invite.RejectionReason = reason
	invite.RespondedAt = &now
	if err := tx.Invite.Update(ctx, invite); err != nil {
		return err
	}

	// 拒绝理由同步到物品，捐赠者的列表页可直接展示
	item.PendingOrgName = ""
	item.RejectionReason = reason
	if err := tx.Donation.Update(ctx, item); err != nil {
		return err
	}

	return notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
		"매칭 거절",
		fmt.Sprintf("'%s' 기관이 '%s' 물품 매칭을 거절했습니다. 사유: %s", org.OrgName, item.Title, reason),
		&item.ID,
	)
}

// ────────────────────── SendInvite ──────────────────────

func (s *matchingService) SendInvite(ctx context.Context, req *dto.SendInviteRequest) (*dto.InviteResponse, error) {
	var invite *model.MatchingInvite

	err := s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, req.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}

		org, err := tx.Organization.GetByID(ctx, req.OrgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return err
		}
		if org.Status != model.OrgStatusApproved {
			return ErrOrganizationNotApproved
		}

		invite, err = createInviteTx(ctx, tx, item, org, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("匹配邀请已发送",
		zap.String("invite_id", invite.ID.String()),
		zap.String("item_id", req.ItemID.String()),
		zap.String("org_id", req.OrgID.String()),
	)

	resp := toInviteResponse(invite)
	return &resp, nil
}

// ────────────────────── GetInvite ──────────────────────

// GetInvite 查看邀请详情
// 管理员可查看任意邀请，机构只能查看发给自己的
func (s *matchingService) GetInvite(ctx context.Context, userID uuid.UUID, role string, inviteID uuid.UUID) (*dto.InviteResponse, error) {
	invite, err := s.repo.Invite.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	if role != model.RoleAdmin {
		org, err := s.repo.Organization.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotInviteRecipient
			}
			return nil, err
		}
		if invite.OrgID != org.ID {
			return nil, ErrNotInviteRecipient
		}
	}

	resp := toInviteResponse(invite)
	return &resp, nil
}

// ────────────────────── AcceptInvite ──────────────────────

func (s *matchingService) AcceptInvite(ctx context.Context, orgUserID, inviteID uuid.UUID) error {
	return s.respond(ctx, orgUserID, inviteID, true, "")
}

// ────────────────────── RejectInvite ──────────────────────

func (s *matchingService) RejectInvite(ctx context.Context, orgUserID, inviteID uuid.UUID, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	return s.respond(ctx, orgUserID, inviteID, false, reason)
}

// respond 机构响应邀请
// 接受则在同一事务内完成匹配；拒绝则物品留在匹配队列等待下一次邀请
func (s *matchingService) respond(ctx context.Context, orgUserID, inviteID uuid.UUID, accept bool, reason string) error {
	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		invite, err := tx.Invite.GetByIDForUpdate(ctx, inviteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		org, err := tx.Organization.GetByUserID(ctx, orgUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotInviteRecipient
			}
			return err
		}
		if invite.OrgID != org.ID {
			return ErrNotInviteRecipient
		}
		if invite.Status != model.InviteStatusPending {
			return ErrInviteAlreadyHandled
		}

		item, err := tx.Donation.GetByIDForUpdate(ctx, invite.ItemID)
		if err != nil {
			return err
		}

		if accept {
			now := time.Now()
			invite.Status = model.InviteStatusAccepted
			invite.RespondedAt = &now
			if err := tx.Invite.Update(ctx, invite); err != nil {
				return err
			}
			return finalizeMatchTx(ctx, tx, item, org)
		}
		return revertRejectedInviteTx(ctx, tx, invite, item, org, reason)
	})
}

// ────────────────────── ListMyInvites ──────────────────────

func (s *matchingService) ListMyInvites(ctx context.Context, orgUserID uuid.UUID, req *dto.ListInvitesRequest) ([]dto.InviteResponse, int64, error) {
	org, err := s.repo.Organization.GetByUserID(ctx, orgUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrOrganizationNotFound
		}
		return nil, 0, err
	}

	invites, total, err := s.repo.Invite.ListByOrg(ctx, org.ID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.InviteResponse, 0, len(invites))
	for i := range invites {
		result = append(result, toInviteResponse(&invites[i]))
	}
	return result, total, nil
}

func toInviteResponse(invite *model.MatchingInvite) dto.InviteResponse {
	resp := dto.InviteResponse{
		ID:              invite.ID,
		ItemID:          invite.ItemID,
		OrgID:           invite.OrgID,
		Status:          invite.Status,
		RejectionReason: invite.RejectionReason,
		RespondedAt:     invite.RespondedAt,
		ItemTitle:       invite.ItemTitle,
		ItemCategory:    invite.ItemCategory,
		ItemCondition:   invite.ItemCondition,
		ItemDescription: invite.ItemDescription,
		DeliveryMethod:  invite.DeliveryMethod,
		CreatedAt:       invite.CreatedAt,
	}
	if invite.Item != nil {
		item := toDonationResponse(invite.Item)
		resp.Item = &item
	}
	return resp
}

// [自证通过] internal/service/matching_service.go
