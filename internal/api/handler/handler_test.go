package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rewear/backend/internal/dto"
	"rewear/backend/internal/model"
	"rewear/backend/internal/service"
	"rewear/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock DonationService ──

type mockDonationService struct {
	submitResult *dto.DonationResponse
	submitErr    error
	getResult    *dto.DonationResponse
	getErr       error
	listResult   []dto.DonationResponse
	listTotal    int64
	listErr      error
	cancelErr    error
	approveErr   error
	rejectErr    error
	resetErr     error
	assignErr    error
	deliveryErr  error
}

func (m *mockDonationService) Submit(_ context.Context, _ uuid.UUID, _ *dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockDonationService) GetByID(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (*dto.DonationResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockDonationService) ListMine(_ context.Context, _ uuid.UUID, _ *dto.ListDonationsRequest) ([]dto.DonationResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockDonationService) ListQueue(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.DonationResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockDonationService) Cancel(_ context.Context, _, _ uuid.UUID) error { return m.cancelErr }
func (m *mockDonationService) Approve(_ context.Context, _ uuid.UUID) error  { return m.approveErr }
func (m *mockDonationService) Reject(_ context.Context, _ uuid.UUID, _ string) error {
	return m.rejectErr
}
func (m *mockDonationService) ResetToPending(_ context.Context, _ uuid.UUID) error {
	return m.resetErr
}
func (m *mockDonationService) Assign(_ context.Context, _, _ uuid.UUID) error { return m.assignErr }
func (m *mockDonationService) MarkDeliveryPending(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) error {
	return m.deliveryErr
}
func (m *mockDonationService) MarkDelivered(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) error {
	return m.deliveryErr
}

// ── Mock MatchingService ──

type mockMatchingService struct {
	sendResult *dto.InviteResponse
	sendErr    error
	getResult  *dto.InviteResponse
	getErr     error
	acceptErr  error
	rejectErr  error
	listResult []dto.InviteResponse
	listTotal  int64
	listErr    error
}

func (m *mockMatchingService) SendInvite(_ context.Context, _ *dto.SendInviteRequest) (*dto.InviteResponse, error) {
	return m.sendResult, m.sendErr
}
func (m *mockMatchingService) GetInvite(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (*dto.InviteResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockMatchingService) AcceptInvite(_ context.Context, _, _ uuid.UUID) error {
	return m.acceptErr
}
func (m *mockMatchingService) RejectInvite(_ context.Context, _, _ uuid.UUID, _ string) error {
	return m.rejectErr
}
func (m *mockMatchingService) ListMyInvites(_ context.Context, _ uuid.UUID, _ *dto.ListInvitesRequest) ([]dto.InviteResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── 测试工具 ──

// fakeAuth 模拟 JWT 中间件注入的上下文
func fakeAuth(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	return resp
}

// ── DonationHandler ──

func TestCreateDonationReturnsCreated(t *testing.T) {
	svc := &mockDonationService{
		submitResult: &dto.DonationResponse{
			ID:          uuid.New(),
			Status:      string(model.StatusPendingApproval),
			StatusLabel: "승인대기",
		},
	}
	h := NewDonationHandler(svc)

	r := gin.New()
	r.POST("/donations", fakeAuth(uuid.New(), model.RoleUser), h.Create)

	w := doRequest(r, http.MethodPost, "/donations", dto.CreateDonationRequest{
		Title:          "겨울 코트",
		Category:       "outer",
		Condition:      "good",
		DonationMethod: "auto_match",
		DeliveryMethod: "parcel",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("状态码应为 201: got %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("业务码应为 0: got %d", resp.Code)
	}
}

func TestCreateDonationValidatesBody(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{})

	r := gin.New()
	r.POST("/donations", fakeAuth(uuid.New(), model.RoleUser), h.Create)

	// delivery_method 非法值
	w := doRequest(r, http.MethodPost, "/donations", map[string]string{
		"title":           "겨울 코트",
		"category":        "outer",
		"condition":       "good",
		"donation_method": "auto_match",
		"delivery_method": "drone",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码应为 400: got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 10001 {
		t.Errorf("业务码应为 10001: got %d", resp.Code)
	}
}

func TestRejectDonationErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"不存在", service.ErrDonationNotFound, http.StatusNotFound, 12001},
		{"状态冲突", service.ErrInvalidTransition, http.StatusConflict, 12003},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewDonationHandler(&mockDonationService{rejectErr: c.err})
			r := gin.New()
			r.POST("/donations/:id/reject", fakeAuth(uuid.New(), model.RoleAdmin), h.Reject)

			w := doRequest(r, http.MethodPost, "/donations/"+uuid.NewString()+"/reject",
				dto.RejectDonationRequest{Reason: "사진이 불명확합니다"})

			if w.Code != c.wantHTTP {
				t.Errorf("HTTP 状态码不匹配: got %d, want %d", w.Code, c.wantHTTP)
			}
			if resp := decodeResponse(t, w); resp.Code != c.wantCode {
				t.Errorf("业务码不匹配: got %d, want %d", resp.Code, c.wantCode)
			}
		})
	}
}

func TestConflictResponseCarriesCurrentStatus(t *testing.T) {
	wrapped := fmt.Errorf("%w（当前状态: %s）", service.ErrInvalidTransition, model.StatusMatched.Label())
	h := NewDonationHandler(&mockDonationService{rejectErr: wrapped})
	r := gin.New()
	r.POST("/donations/:id/reject", fakeAuth(uuid.New(), model.RoleAdmin), h.Reject)

	w := doRequest(r, http.MethodPost, "/donations/"+uuid.NewString()+"/reject",
		dto.RejectDonationRequest{Reason: "사진이 불명확합니다"})

	if w.Code != http.StatusConflict {
		t.Fatalf("HTTP 状态码应为 409: got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != 12003 {
		t.Errorf("业务码应为 12003: got %d", resp.Code)
	}
	// 冲突响应透传服务层信息，包含物品当前状态
	if !strings.Contains(resp.Message, "매칭됨") {
		t.Errorf("响应信息应包含当前状态标签: got %q", resp.Message)
	}
}

func TestRejectDonationRequiresBody(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{})
	r := gin.New()
	r.POST("/donations/:id/reject", fakeAuth(uuid.New(), model.RoleAdmin), h.Reject)

	w := doRequest(r, http.MethodPost, "/donations/"+uuid.NewString()+"/reject", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少理由应返回 400: got %d", w.Code)
	}
}

func TestGetDonationInvalidID(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{})
	r := gin.New()
	r.GET("/donations/:id", fakeAuth(uuid.New(), model.RoleUser), h.Get)

	w := doRequest(r, http.MethodGet, "/donations/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法 UUID 应返回 400: got %d", w.Code)
	}
}

// ── MatchingHandler ──

func TestAcceptInviteMapsRecipientError(t *testing.T) {
	h := NewMatchingHandler(&mockMatchingService{acceptErr: service.ErrNotInviteRecipient})
	r := gin.New()
	r.POST("/matching/invites/:id/accept", fakeAuth(uuid.New(), model.RoleOrganization), h.Accept)

	w := doRequest(r, http.MethodPost, "/matching/invites/"+uuid.NewString()+"/accept", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("非接收机构应返回 403: got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 13004 {
		t.Errorf("业务码应为 13004: got %d", resp.Code)
	}
}

func TestRejectInviteMapsHandledError(t *testing.T) {
	h := NewMatchingHandler(&mockMatchingService{rejectErr: service.ErrInviteAlreadyHandled})
	r := gin.New()
	r.POST("/matching/invites/:id/reject", fakeAuth(uuid.New(), model.RoleOrganization), h.Reject)

	w := doRequest(r, http.MethodPost, "/matching/invites/"+uuid.NewString()+"/reject",
		dto.RejectInviteRequest{Reason: "수용 공간 부족"})
	if w.Code != http.StatusConflict {
		t.Errorf("已处理邀请应返回 409: got %d", w.Code)
	}
}

func TestListMyInvitesPagination(t *testing.T) {
	h := NewMatchingHandler(&mockMatchingService{
		listResult: []dto.InviteResponse{{ID: uuid.New(), Status: model.InviteStatusPending}},
		listTotal:  1,
	})
	r := gin.New()
	r.GET("/matching/invites/my", fakeAuth(uuid.New(), model.RoleOrganization), h.ListMyInvites)

	w := doRequest(r, http.MethodGet, "/matching/invites/my?page=1&page_size=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200: got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("业务码应为 0: got %d", resp.Code)
	}
}

// ── 上下文辅助 ──

func TestMustGetUserIDWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/probe", func(c *gin.Context) {
		if _, ok := MustGetUserID(c); !ok {
			return
		}
		response.OK(c, nil)
	})

	w := doRequest(r, http.MethodGet, "/probe", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("缺少认证上下文应返回 401: got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
