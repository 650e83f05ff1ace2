package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rewear/backend/internal/model"
	"rewear/backend/internal/repository"
	pkgerrors "rewear/backend/pkg/errors"
)

// 内存版仓储桩，按主键存储，行为对齐真实实现的错误约定

// ── 用户 ──

type mockUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ── 机构 ──

type mockOrganizationRepo struct {
	orgs  map[uuid.UUID]*model.OrganizationAccount
	users *mockUserRepo
}

func newMockOrganizationRepo(users *mockUserRepo) *mockOrganizationRepo {
	return &mockOrganizationRepo{
		orgs:  make(map[uuid.UUID]*model.OrganizationAccount),
		users: users,
	}
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *model.OrganizationAccount) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	org.CreatedAt = time.Now()
	m.orgs[org.ID] = org
	return nil
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id uuid.UUID) (*model.OrganizationAccount, error) {
	org, ok := m.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return org, nil
}

func (m *mockOrganizationRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.OrganizationAccount, error) {
	return m.GetByID(ctx, id)
}

func (m *mockOrganizationRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.OrganizationAccount, error) {
	for _, org := range m.orgs {
		if org.UserID == userID {
			return org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) GetApprovedByUsername(_ context.Context, username string) (*model.OrganizationAccount, error) {
	for _, org := range m.orgs {
		if org.Status != model.OrgStatusApproved {
			continue
		}
		user, ok := m.users.users[org.UserID]
		if ok && user.Username == username {
			return org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) GetApprovedByOrgName(_ context.Context, orgName string) (*model.OrganizationAccount, error) {
	for _, org := range m.orgs {
		if org.Status == model.OrgStatusApproved && org.OrgName == orgName {
			return org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) ListByStatus(_ context.Context, status string, offset, limit int) ([]model.OrganizationAccount, int64, error) {
	var result []model.OrganizationAccount
	for _, org := range m.orgs {
		if org.Status == status {
			result = append(result, *org)
		}
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockOrganizationRepo) ListApproved(ctx context.Context, offset, limit int) ([]model.OrganizationAccount, int64, error) {
	return m.ListByStatus(ctx, model.OrgStatusApproved, offset, limit)
}

func (m *mockOrganizationRepo) Update(_ context.Context, org *model.OrganizationAccount) error {
	if _, ok := m.orgs[org.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *mockOrganizationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status, reason string, reviewedAt time.Time) error {
	org, ok := m.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	org.Status = status
	org.RejectionReason = reason
	org.ReviewedAt = &reviewedAt
	return nil
}

// ── 捐赠物品 ──

type mockDonationRepo struct {
	items map[uuid.UUID]*model.DonationItem
}

func newMockDonationRepo() *mockDonationRepo {
	return &mockDonationRepo{items: make(map[uuid.UUID]*model.DonationItem)}
}

func (m *mockDonationRepo) Create(_ context.Context, item *model.DonationItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Version == 0 {
		item.Version = 1
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	clone := *item
	m.items[item.ID] = &clone
	return nil
}

func (m *mockDonationRepo) GetByID(_ context.Context, id uuid.UUID) (*model.DonationItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (m *mockDonationRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.DonationItem, error) {
	return m.GetByID(ctx, id)
}

func (m *mockDonationRepo) matches(item *model.DonationItem, filter repository.DonationListFilter) bool {
	if filter.DonorID != nil && item.DonorID != *filter.DonorID {
		return false
	}
	if filter.MatchedOrgID != nil && (item.MatchedOrgID == nil || *item.MatchedOrgID != *filter.MatchedOrgID) {
		return false
	}
	if filter.Status != nil && item.Status != *filter.Status {
		return false
	}
	if filter.DonationMethod != "" && item.DonationMethod != filter.DonationMethod {
		return false
	}
	return true
}

func (m *mockDonationRepo) List(_ context.Context, filter repository.DonationListFilter, offset, limit int) ([]model.DonationItem, int64, error) {
	var result []model.DonationItem
	for _, item := range m.items {
		if m.matches(item, filter) {
			result = append(result, *item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, offset, limit), int64(len(result)), nil
}

// Update 模拟乐观锁：版本不一致时拒绝写入
func (m *mockDonationRepo) Update(_ context.Context, item *model.DonationItem) error {
	stored, ok := m.items[item.ID]
	if !ok || stored.Version != item.Version {
		return pkgerrors.ErrOptimisticLock
	}
	item.Version++
	item.UpdatedAt = time.Now()
	clone := *item
	m.items[item.ID] = &clone
	return nil
}

func (m *mockDonationRepo) ListAllForExport(ctx context.Context, filter repository.DonationListFilter) ([]model.DonationItem, error) {
	items, _, err := m.List(ctx, filter, 0, len(m.items))
	return items, err
}

// ── 匹配邀请 ──

type mockInviteRepo struct {
	invites map[uuid.UUID]*model.MatchingInvite
}

func newMockInviteRepo() *mockInviteRepo {
	return &mockInviteRepo{invites: make(map[uuid.UUID]*model.MatchingInvite)}
}

func (m *mockInviteRepo) Create(_ context.Context, invite *model.MatchingInvite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	invite.CreatedAt = time.Now()
	clone := *invite
	m.invites[invite.ID] = &clone
	return nil
}

func (m *mockInviteRepo) GetByID(_ context.Context, id uuid.UUID) (*model.MatchingInvite, error) {
	invite, ok := m.invites[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *invite
	return &clone, nil
}

func (m *mockInviteRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MatchingInvite, error) {
	return m.GetByID(ctx, id)
}

func (m *mockInviteRepo) GetPendingByItem(_ context.Context, itemID uuid.UUID) (*model.MatchingInvite, error) {
	for _, invite := range m.invites {
		if invite.ItemID == itemID && invite.Status == model.InviteStatusPending {
			clone := *invite
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteRepo) ListByOrg(_ context.Context, orgID uuid.UUID, status string, offset, limit int) ([]model.MatchingInvite, int64, error) {
	var result []model.MatchingInvite
	for _, invite := range m.invites {
		if invite.OrgID != orgID {
			continue
		}
		if status != "" && invite.Status != status {
			continue
		}
		result = append(result, *invite)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockInviteRepo) Update(_ context.Context, invite *model.MatchingInvite) error {
	if _, ok := m.invites[invite.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *invite
	m.invites[invite.ID] = &clone
	return nil
}

func (m *mockInviteRepo) CancelPendingByItem(_ context.Context, itemID uuid.UUID) error {
	for _, invite := range m.invites {
		if invite.ItemID == itemID && invite.Status == model.InviteStatusPending {
			invite.Status = model.InviteStatusCancelled
		}
	}
	return nil
}

// ── 通知 ──

type mockNotificationRepo struct {
	notifications map[uuid.UUID]*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[uuid.UUID]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	clone := *n
	m.notifications[n.ID] = &clone
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *n
	return &clone, nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, onlyUnread bool, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if onlyUnread && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id uuid.UUID, userID uuid.UUID) error {
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id uuid.UUID, userID uuid.UUID) error {
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(m.notifications, id)
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ── 测试环境 ──

// mockTxManager 直接在非事务仓储上执行回调
type mockTxManager struct {
	repo *repository.Repository
}

func (m *mockTxManager) Transaction(_ context.Context, fn repository.TxFunc) error {
	return fn(m.repo)
}

type testEnv struct {
	users         *mockUserRepo
	orgs          *mockOrganizationRepo
	donations     *mockDonationRepo
	invites       *mockInviteRepo
	notifications *mockNotificationRepo

	repo *repository.Repository
	txm  repository.TxManager
}

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	orgs := newMockOrganizationRepo(users)
	donations := newMockDonationRepo()
	invites := newMockInviteRepo()
	notifications := newMockNotificationRepo()

	repo := &repository.Repository{
		User:         users,
		Organization: orgs,
		Donation:     donations,
		Invite:       invites,
		Notification: notifications,
	}
	return &testEnv{
		users:         users,
		orgs:          orgs,
		donations:     donations,
		invites:       invites,
		notifications: notifications,
		repo:          repo,
		txm:           &mockTxManager{repo: repo},
	}
}

// seedUser 预置用户
func (e *testEnv) seedUser(username, role string) *model.User {
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$10$placeholder",
		DisplayName:  username,
		Role:         role,
	}
	_ = e.users.Create(context.Background(), user)
	return user
}

// seedOrg 预置机构（含账号）
func (e *testEnv) seedOrg(username, orgName, status string) (*model.User, *model.OrganizationAccount) {
	user := e.seedUser(username, model.RoleOrganization)
	org := &model.OrganizationAccount{
		UserID:  user.ID,
		OrgName: orgName,
		Status:  status,
	}
	_ = e.orgs.Create(context.Background(), org)
	return user, org
}

// seedDonation 预置捐赠物品
func (e *testEnv) seedDonation(donorID uuid.UUID, method string, status model.DonationStatus, targetOrg string) *model.DonationItem {
	item := &model.DonationItem{
		DonorID:        donorID,
		Title:          "겨울 코트",
		Category:       "outer",
		ItemCondition:  "good",
		DonationMethod: method,
		TargetOrgName:  targetOrg,
		DeliveryMethod: model.DeliveryMethodParcel,
		Status:         status,
	}
	_ = e.donations.Create(context.Background(), item)
	return item
}

// unreadFor 统计某用户未读通知
func (e *testEnv) unreadFor(userID uuid.UUID) int64 {
	count, _ := e.notifications.CountUnread(context.Background(), userID)
	return count
}

// [自证通过] internal/service/mock_repos_test.go
