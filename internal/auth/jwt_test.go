package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("ops@example.com", "ops@example.com", RoleOperator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "ops@example.com" || claims.Email != "ops@example.com" || claims.Role != RoleOperator {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != issuer {
		t.Fatalf("expected issuer %q, got %q", issuer, claims.Issuer)
	}

	if _, err := manager.ParseToken(token + "tampered"); err == nil {
		t.Fatalf("expected parse error for tampered token")
	}
}

func TestJWTManager_EmptySecret(t *testing.T) {
	manager := NewJWTManager("", time.Hour)
	if _, err := manager.GenerateToken("ops", "ops@example.com", RoleOperator); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
}

func TestJWTManager_DefaultTTL(t *testing.T) {
	if got := NewJWTManager("secret", 0).TTL(); got != 15*time.Minute {
		t.Fatalf("expected 15m default ttl, got %s", got)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := NewJWTManager("secret", 15*time.Minute)
	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, err := manager.GenerateToken("ops", "ops@example.com", RoleOperator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager.now = func() time.Time { return issued.Add(16 * time.Minute) }
	if _, err := manager.ParseToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTManager_RejectsOtherSigningMethod(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleOperator,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := manager.ParseToken(token); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}
