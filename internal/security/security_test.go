package security

import (
	"testing"
	"time"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("expected hash to differ from plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to be rejected")
	}
}

func TestUserToken_RoundTrip(t *testing.T) {
	signed, err := SignUserToken("secret", time.Hour, 42, "alice")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	claims, errParse := ParseUserToken("secret", signed)
	if errParse != nil {
		t.Fatalf("parse token: %v", errParse)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user_id=42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username=alice, got %q", claims.Username)
	}
}

func TestUserToken_WrongSecret(t *testing.T) {
	signed, err := SignUserToken("secret", time.Hour, 1, "alice")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, errParse := ParseUserToken("other", signed); errParse != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", errParse)
	}
}

func TestUserToken_Expired(t *testing.T) {
	signed, err := SignUserToken("secret", -time.Minute, 1, "alice")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, errParse := ParseUserToken("secret", signed); errParse != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", errParse)
	}
}
