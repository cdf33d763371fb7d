package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	jwtSecret = []byte("test-secret")

	token, err := GenerateJWT(42, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	p, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.UserID != 42 {
		t.Errorf("user_id = %d, want 42", p.UserID)
	}
	if p.IsAdmin {
		t.Errorf("expected non-admin principal")
	}
}

func TestJWTAdminClaim(t *testing.T) {
	jwtSecret = []byte("test-secret")

	token, err := GenerateJWT(1, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	p, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !p.IsAdmin {
		t.Errorf("expected admin principal")
	}
}

func TestJWTRejectsTampered(t *testing.T) {
	jwtSecret = []byte("test-secret")

	token, err := GenerateJWT(7, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token + "x"); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}

	jwtSecret = []byte("different-secret")
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("expected token signed with old secret to be rejected")
	}
}
