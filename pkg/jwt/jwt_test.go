package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "alice", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user_id = %s, want %s", claims.UserID, userID)
	}
	if claims.Username != "alice" || claims.Role != "student" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	got, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if got != userID {
		t.Fatalf("user_id = %s, want %s", got, userID)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	refresh, _ := m.GenerateRefreshToken(userID)
	if _, err := m.ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token must not validate as access token")
	}

	access, _ := m.GenerateAccessToken(userID, "alice", "student")
	if _, err := m.ValidateRefreshToken(access); err == nil {
		t.Fatal("access token must not validate as refresh token")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	m := newTestManager()

	token, _ := m.GenerateAccessToken(uuid.New(), "alice", "student")
	if _, err := m.ValidateAccessToken(token + "x"); err == nil {
		t.Fatal("tampered token must be rejected")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	m := newTestManager()

	a, err := m.HashToken("some-token")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}
	b, _ := m.HashToken("some-token")
	c, _ := m.HashToken("other-token")

	if a != b {
		t.Fatal("same input should hash identically")
	}
	if a == c {
		t.Fatal("different inputs should hash differently")
	}
}
