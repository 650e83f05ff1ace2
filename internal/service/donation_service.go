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
	// ErrDonationNotFound 捐赠物品不存在
	ErrDonationNotFound = errors.New("捐赠物品不存在")
	// ErrNotDonationOwner 非物品捐赠者本人
	ErrNotDonationOwner = errors.New("无权操作他人的捐赠物品")
	// ErrInvalidTransition 当前状态不允许该操作
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	// ErrReasonRequired 拒绝操作必须填写理由
	ErrReasonRequired = errors.New("拒绝理由不能为空")
	// ErrTargetOrgRequired 定向捐赠必须指定目标机构
	ErrTargetOrgRequired = errors.New("定向捐赠必须指定目标机构")
	// ErrUnknownQueue 未知的队列名称
	ErrUnknownQueue = errors.New("未知的队列名称")
)

// allowedTransitions 状态机：每个状态允许迁出的目标状态
// 状态迁移只能经由服务层操作触发，不提供任意改状态的入口
var allowedTransitions = map[model.DonationStatus][]model.DonationStatus{
	model.StatusPendingApproval: {model.StatusPendingMatch, model.StatusRejected, model.StatusCancelled},
	model.StatusPendingMatch:    {model.StatusMatched, model.StatusRejected, model.StatusCancelled, model.StatusPendingApproval},
	model.StatusMatched:         {model.StatusDeliveryPending, model.StatusPendingApproval},
	model.StatusDeliveryPending: {model.StatusDelivered},
	model.StatusDelivered:       {},
	model.StatusRejected:        {model.StatusPendingApproval},
	model.StatusCancelled:       {},
}

// canTransition 判断状态迁移是否合法
func canTransition(from, to model.DonationStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// invalidTransition 迁移被拒时附带物品当前状态，调用方能看到物品现在处于哪一步
func invalidTransition(current model.DonationStatus) error {
	return fmt.Errorf("%w（当前状态: %s）", ErrInvalidTransition, current.Label())
}

// DonationService 捐赠物品生命周期服务接口
type DonationService interface {
	Submit(ctx context.Context, donorID uuid.UUID, req *dto.CreateDonationRequest) (*dto.DonationResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID) (*dto.DonationResponse, error)
	ListMine(ctx context.Context, donorID uuid.UUID, req *dto.ListDonationsRequest) ([]dto.DonationResponse, int64, error)
	ListQueue(ctx context.Context, queue string, req *dto.PaginationRequest) ([]dto.DonationResponse, int64, error)
	Cancel(ctx context.Context, donorID, itemID uuid.UUID) error
	Approve(ctx context.Context, itemID uuid.UUID) error
	Reject(ctx context.Context, itemID uuid.UUID, reason string) error
	ResetToPending(ctx context.Context, itemID uuid.UUID) error
	Assign(ctx context.Context, itemID, orgID uuid.UUID) error
	MarkDeliveryPending(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID) error
	MarkDelivered(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID) error
}

type donationService struct {
	repo   *repository.Repository
	txm    repository.TxManager
	logger *zap.Logger
}

// NewDonationService 创建捐赠物品服务
func NewDonationService(repo *repository.Repository, txm repository.TxManager, logger *zap.Logger) DonationService {
	return &donationService{repo: repo, txm: txm, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *donationService) Submit(ctx context.Context, donorID uuid.UUID, req *dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	if req.DonationMethod == model.DonationMethodDirect && req.TargetOrgName == "" {
		return nil, ErrTargetOrgRequired
	}

	item := &model.DonationItem{
		DonorID:        donorID,
		Title:          req.Title,
		Category:       req.Category,
		ItemCondition:  req.Condition,
		Description:    req.Description,
		Images:         model.StringArray(req.Images),
		DonationMethod: req.DonationMethod,
		TargetOrgName:  req.TargetOrgName,
		DeliveryMethod: req.DeliveryMethod,
		Status:         model.StatusPendingApproval,
	}
	item.Version = 1

	if err := s.repo.Donation.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("捐赠物品已提交",
		zap.String("item_id", item.ID.String()),
		zap.String("donor_id", donorID.String()),
		zap.String("method", item.DonationMethod),
	)

	resp := toDonationResponse(item)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *donationService) GetByID(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID) (*dto.DonationResponse, error) {
	item, err := s.repo.Donation.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}

	if !s.canView(ctx, item, userID, role) {
		return nil, ErrNotDonationOwner
	}

	resp := toDonationResponse(item)
	return &resp, nil
}

// canView 捐赠者本人、管理员、被匹配机构可查看
func (s *donationService) canView(ctx context.Context, item *model.DonationItem, userID uuid.UUID, role string) bool {
	if role == model.RoleAdmin || item.DonorID == userID {
		return true
	}
	if role == model.RoleOrganization && item.MatchedOrgID != nil {
		org, err := s.repo.Organization.GetByUserID(ctx, userID)
		if err == nil && org.ID == *item.MatchedOrgID {
			return true
		}
	}
	return false
}

// ────────────────────── ListMine ──────────────────────

func (s *donationService) ListMine(ctx context.Context, donorID uuid.UUID, req *dto.ListDonationsRequest) ([]dto.DonationResponse, int64, error) {
	filter := repository.DonationListFilter{DonorID: &donorID}
	if req.Status != "" {
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}

	items, total, err := s.repo.Donation.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return toDonationResponses(items), total, nil
}

// ────────────────────── ListQueue ──────────────────────

// queueFilter 管理端队列名到过滤条件的映射
func queueFilter(queue string) (repository.DonationListFilter, error) {
	statusOf := func(s model.DonationStatus) *model.DonationStatus { return &s }

	switch queue {
	case "pending":
		return repository.DonationListFilter{Status: statusOf(model.StatusPendingApproval)}, nil
	case "auto_match":
		return repository.DonationListFilter{
			Status:         statusOf(model.StatusPendingMatch),
			DonationMethod: model.DonationMethodAuto,
		}, nil
	case "direct_match":
		return repository.DonationListFilter{
			Status:         statusOf(model.StatusPendingMatch),
			DonationMethod: model.DonationMethodDirect,
		}, nil
	case "matched":
		return repository.DonationListFilter{Status: statusOf(model.StatusMatched)}, nil
	case "rejected":
		return repository.DonationListFilter{Status: statusOf(model.StatusRejected)}, nil
	case "delivered":
		return repository.DonationListFilter{Status: statusOf(model.StatusDelivered)}, nil
	default:
		return repository.DonationListFilter{}, ErrUnknownQueue
	}
}

func (s *donationService) ListQueue(ctx context.Context, queue string, req *dto.PaginationRequest) ([]dto.DonationResponse, int64, error) {
	filter, err := queueFilter(queue)
	if err != nil {
		return nil, 0, err
	}

	items, total, err := s.repo.Donation.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return toDonationResponses(items), total, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *donationService) Cancel(ctx context.Context, donorID, itemID uuid.UUID) error {
	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}
		if item.DonorID != donorID {
			return ErrNotDonationOwner
		}
		if !canTransition(item.Status, model.StatusCancelled) {
			return invalidTransition(item.Status)
		}

		// 撤回时同时取消尚未响应的匹配邀请
		if err := tx.Invite.CancelPendingByItem(ctx, itemID); err != nil {
			return err
		}

		item.Status = model.StatusCancelled
		item.PendingOrgName = ""
		if err := tx.Donation.Update(ctx, item); err != nil {
			return err
		}

		return notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
			"기부 신청 취소",
			fmt.Sprintf("'%s' 기부 신청이 취소되었습니다.", item.Title),
			&item.ID,
		)
	})
}

// ────────────────────── Approve ──────────────────────

// Approve 审核通过，物品进入匹配阶段
// 定向捐赠在同一事务内自动向目标机构发出邀请，捐赠者只收到审核通过这一条通知
func (s *donationService) Approve(ctx context.Context, itemID uuid.UUID) error {
	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}
		if item.Status != model.StatusPendingApproval {
			return invalidTransition(item.Status)
		}

		item.Status = model.StatusPendingMatch
		item.RejectionReason = ""
		if err := tx.Donation.Update(ctx, item); err != nil {
			return err
		}

		if err := notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
			"기부 승인 완료",
			fmt.Sprintf("'%s' 기부 신청이 승인되었습니다.", item.Title),
			&item.ID,
		); err != nil {
			return err
		}

		if item.DonationMethod == model.DonationMethodDirect {
			org, err := resolveApprovedOrg(ctx, tx, item.TargetOrgName)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// 目标机构无法解析时保留在匹配队列，由管理员人工处理
					s.logger.Warn("定向捐赠目标机构无法解析",
						zap.String("item_id", item.ID.String()),
						zap.String("target_org", item.TargetOrgName),
					)
					return nil
				}
				return err
			}
			// 审核通知已发，此处不再重复通知捐赠者
			if _, err := createInviteTx(ctx, tx, item, org, false); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveApprovedOrg 解析目标机构：优先按机构账号用户名，历史数据按机构名兜底
func resolveApprovedOrg(ctx context.Context, tx *repository.Repository, target string) (*model.OrganizationAccount, error) {
	org, err := tx.Organization.GetApprovedByUsername(ctx, target)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return tx.Organization.GetApprovedByOrgName(ctx, target)
}

// ────────────────────── Reject ──────────────────────

func (s *donationService) Reject(ctx context.Context, itemID uuid.UUID, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}

	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}
		if !canTransition(item.Status, model.StatusRejected) {
			return invalidTransition(item.Status)
		}

		// 匹配阶段被拒时使未响应的邀请一并失效
		if err := tx.Invite.CancelPendingByItem(ctx, itemID); err != nil {
			return err
		}

		item.Status = model.StatusRejected
		item.RejectionReason = reason
		item.PendingOrgName = ""
		if err := tx.Donation.Update(ctx, item); err != nil {
			return err
		}

		return notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
			"기부 승인 거절",
			fmt.Sprintf("'%s' 기부 신청이 거절되었습니다. 사유: %s", item.Title, reason),
			&item.ID,
		)
	})
}

// ────────────────────── ResetToPending ──────────────────────

// ResetToPending 将被拒绝的物品重新置为待审核，并告知捐赠者
func (s *donationService) ResetToPending(ctx context.Context, itemID uuid.UUID) error {
	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}
		if !canTransition(item.Status, model.StatusPendingApproval) {
			return invalidTransition(item.Status)
		}

		// 重置会撤销已有的匹配进展
		if err := tx.Invite.CancelPendingByItem(ctx, itemID); err != nil {
			return err
		}

		item.Status = model.StatusPendingApproval
		item.RejectionReason = ""
		item.PendingOrgName = ""
		item.MatchedOrgID = nil
		item.MatchedOrgName = ""
		item.MatchedAt = nil
		if err := tx.Donation.Update(ctx, item); err != nil {
			return err
		}

		return notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo,
			"기부 신청 재검토",
			fmt.Sprintf("'%s' 기부 신청이 다시 검토 대기 상태로 변경되었습니다.", item.Title),
			&item.ID,
		)
	})
}

// ────────────────────── Assign ──────────────────────

// Assign 管理员为自动匹配物品指派机构
// 指派同样以邀请形式送达，物品在机构接受前停留在匹配队列
func (s *donationService) Assign(ctx context.Context, itemID, orgID uuid.UUID) error {
	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}

		org, err := tx.Organization.GetByID(ctx, orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return err
		}
		if org.Status != model.OrgStatusApproved {
			return ErrOrganizationNotApproved
		}

		_, err = createInviteTx(ctx, tx, item, org, true)
		return err
	})
}

// ────────────────────── MarkDeliveryPending ──────────────────────

func (s *donationService) MarkDeliveryPending(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID) error {
	return s.markDeliveryStage(ctx, userID, role, itemID, model.StatusDeliveryPending)
}

// ────────────────────── MarkDelivered ──────────────────────

func (s *donationService) MarkDelivered(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID) error {
	return s.markDeliveryStage(ctx, userID, role, itemID, model.StatusDelivered)
}

// markDeliveryStage 配送阶段推进，管理员或被匹配机构可操作
func (s *donationService) markDeliveryStage(ctx context.Context, userID uuid.UUID, role string, itemID uuid.UUID, target model.DonationStatus) error {
	return s.txm.Transaction(ctx, func(tx *repository.Repository) error {
		item, err := tx.Donation.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}

		if role != model.RoleAdmin {
			if role != model.RoleOrganization || item.MatchedOrgID == nil {
				return ErrNotDonationOwner
			}
			org, err := tx.Organization.GetByUserID(ctx, userID)
			if err != nil || org.ID != *item.MatchedOrgID {
				return ErrNotDonationOwner
			}
		}

		if !canTransition(item.Status, target) {
			return invalidTransition(item.Status)
		}

		item.Status = target
		var title, content string
		switch target {
		case model.StatusDeliveryPending:
			title = "배송 대기"
			content = fmt.Sprintf("'%s' 물품이 배송 대기 상태가 되었습니다.", item.Title)
		case model.StatusDelivered:
			now := time.Now()
			item.DeliveredAt = &now
			title = "배송 완료"
			content = fmt.Sprintf("'%s' 물품 배송이 완료되었습니다.", item.Title)
		}

		if err := tx.Donation.Update(ctx, item); err != nil {
			return err
		}

		return notifyTx(ctx, tx, item.DonorID, model.NotificationTypeInfo, title, content, &item.ID)
	})
}

// ────────────────────── DTO 映射 ──────────────────────

func toDonationResponse(item *model.DonationItem) dto.DonationResponse {
	resp := dto.DonationResponse{
		ID:              item.ID,
		DonorID:         item.DonorID,
		Title:           item.Title,
		Category:        item.Category,
		Condition:       item.ItemCondition,
		Description:     item.Description,
		Images:          item.Images,
		DonationMethod:  item.DonationMethod,
		TargetOrgName:   item.TargetOrgName,
		DeliveryMethod:  item.DeliveryMethod,
		Status:          string(item.Status),
		StatusLabel:     item.Status.Label(),
		RejectionReason: item.RejectionReason,
		PendingOrgName:  item.PendingOrgName,
		DeliveredAt:     item.DeliveredAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if item.Donor != nil {
		resp.DonorName = item.Donor.DisplayName
	}
	resp.MatchingInfo = matchingInfo(item)
	return resp
}

// matchingInfo 按生命周期阶段生成捐赠者可见的匹配进展
// 匹配完成前也给出文案：审核中、等待机构指派、或某机构正在确认
func matchingInfo(item *model.DonationItem) *dto.MatchingInfo {
	switch item.Status {
	case model.StatusPendingApproval:
		return &dto.MatchingInfo{Message: "관리자가 기부 신청을 검토하고 있습니다."}
	case model.StatusPendingMatch:
		if item.PendingOrgName != "" {
			return &dto.MatchingInfo{
				OrgName: item.PendingOrgName,
				Message: fmt.Sprintf("'%s' 기관에서 매칭 요청을 검토하고 있습니다.", item.PendingOrgName),
			}
		}
		return &dto.MatchingInfo{Message: "매칭할 기관의 배정을 기다리고 있습니다."}
	}
	if item.MatchedOrgName == "" {
		return nil
	}
	return &dto.MatchingInfo{
		OrgName:   item.MatchedOrgName,
		Message:   matchedMessage(item),
		MatchedAt: item.MatchedAt,
	}
}

// matchedMessage 匹配完成后的捐赠者文案，按配送方式区分
func matchedMessage(item *model.DonationItem) string {
	if item.DeliveryMethod == model.DeliveryMethodDirectShip {
		return fmt.Sprintf("'%s' 기관과 매칭이 완료되었습니다. 기관에 직접 전달해 주세요.", item.MatchedOrgName)
	}
	return fmt.Sprintf("'%s' 기관과 매칭이 완료되었습니다. 택배 배송을 준비해 주세요.", item.MatchedOrgName)
}

func toDonationResponses(items []model.DonationItem) []dto.DonationResponse {
	result := make([]dto.DonationResponse, 0, len(items))
	for i := range items {
		result = append(result, toDonationResponse(&items[i]))
	}
	return result
}

// [自证通过] internal/service/donation_service.go
