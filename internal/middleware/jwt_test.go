package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	tokenStr, err := GenerateToken(42, "technician")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id, ok := claims["user_id"].(float64); !ok || uint(id) != 42 {
		t.Fatalf("user_id claim = %v, want 42", claims["user_id"])
	}
	if role, ok := claims["role"].(string); !ok || role != "technician" {
		t.Fatalf("role claim = %v, want technician", claims["role"])
	}
}

func TestParseTokenMalformed(t *testing.T) {
	if _, err := ParseToken("not-a-token"); !errors.Is(err, jwt.ErrTokenMalformed) {
		t.Fatalf("expected malformed token error, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": float64(1),
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseToken(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestParseTokenWrongAlgorithm(t *testing.T) {
	// tokens signed with anything but HS256 must be rejected
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": float64(1),
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseToken(none); err == nil {
		t.Fatal("expected unsigned token to be rejected")
	}
}
