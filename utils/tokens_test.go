package utils

import (
	"testing"
	"time"
)

func TestNewManagerRequiresKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatal("expected error for empty signing key")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m, err := NewManager("test-signing-key")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	token, err := m.NewJWT(42, "city_hall", time.Minute)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}

	userID, role, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
	if role != "city_hall" {
		t.Fatalf("expected role city_hall, got %q", role)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m, _ := NewManager("test-signing-key")
	token, err := m.NewJWT(1, "user", -time.Minute)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	if _, _, err := m.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	m1, _ := NewManager("key-one")
	m2, _ := NewManager("key-two")
	token, err := m1.NewJWT(1, "user", time.Minute)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	if _, _, err := m2.Parse(token); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}

func TestNewRefreshToken(t *testing.T) {
	m, _ := NewManager("test-signing-key")
	a, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatal("expected two refresh tokens to differ")
	}
}
