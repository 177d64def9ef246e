package jwt

import (
	"errors"
	"testing"
	"time"

	"school-sms/backend/config"
)

func newTestManager(secret string) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      secret,
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestManager_RoundTrip(t *testing.T) {
	mgr := newTestManager("test-secret-at-least-16-chars")

	token, err := mgr.GenerateAccessToken("user-001", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken 应成功: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 应成功: %v", err)
	}
	if claims.UserID != "user-001" {
		t.Errorf("期望UserID=user-001，实际=%s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望Role=admin，实际=%s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望TokenType=access，实际=%s", claims.TokenType)
	}
}

func TestManager_WrongSecret(t *testing.T) {
	mgr := newTestManager("test-secret-at-least-16-chars")
	other := newTestManager("another-secret-16-chars-long")

	token, err := mgr.GenerateAccessToken("user-001", "teacher")
	if err != nil {
		t.Fatalf("GenerateAccessToken 应成功: %v", err)
	}

	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望ErrTokenInvalid，实际=%v", err)
	}
}

func TestManager_Garbage(t *testing.T) {
	mgr := newTestManager("test-secret-at-least-16-chars")

	if _, err := mgr.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望ErrTokenInvalid，实际=%v", err)
	}
}
