package service

import (
	"errors"
	"testing"
	"time"
)

func TestLoginIssuesExpiringHostToken(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.Login("admin", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.HostID == "" {
		t.Fatalf("login response = %+v", resp)
	}

	claims, err := svc.ValidateHostToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateHostToken: %v", err)
	}
	if claims.HostID != resp.HostID {
		t.Errorf("hostID = %s, want %s", claims.HostID, resp.HostID)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("host token has no expiry")
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Errorf("host token already expired at %v", claims.ExpiresAt)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService()

	if _, err := svc.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad username err = %v, want ErrInvalidCredentials", err)
	}
}

func TestPlayerTokenCarriesRoomScope(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.GeneratePlayerToken("r1", "p_abc123")
	if err != nil {
		t.Fatalf("GeneratePlayerToken: %v", err)
	}

	claims, err := svc.ValidatePlayerToken(token)
	if err != nil {
		t.Fatalf("ValidatePlayerToken: %v", err)
	}
	if claims.RoomID != "r1" || claims.PlayerID != "p_abc123" {
		t.Errorf("claims = %+v", claims)
	}

	// Host validation must not accept a player token's claim shape as a host.
	if hostClaims, err := svc.ValidateHostToken(token); err == nil && hostClaims.HostID != "" {
		t.Errorf("player token validated as host with ID %q", hostClaims.HostID)
	}
}

func TestValidateRejectsGarbageTokens(t *testing.T) {
	svc := NewAuthService()

	if _, err := svc.ValidateHostToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage host token err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidatePlayerToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage player token err = %v, want ErrInvalidToken", err)
	}
}
