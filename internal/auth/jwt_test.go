package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("unit-test-secret")

	token, err := GenerateToken(secret, 42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	uid, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if uid != 42 {
		t.Fatalf("uid = %d, want 42", uid)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken([]byte("secret-b"), token); err == nil {
		t.Fatalf("token signed with another secret was accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken([]byte("secret"), "not-a-token"); err == nil {
		t.Fatalf("garbage token was accepted")
	}
}

func TestParseTokenRejectsOtherSigningMethods(t *testing.T) {
	secret := []byte("unit-test-secret")

	claims := jwt.MapClaims{
		"user_id": float64(7),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign HS512 token: %v", err)
	}

	if _, err := ParseToken(secret, token); err == nil {
		t.Fatalf("HS512 token accepted; only HS256 should validate")
	}
}
