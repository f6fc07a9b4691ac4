package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/test"
)

const testSecret = "unit-test-secret"

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestParseTokenSubjectClaim(t *testing.T) {
	secret := test.RandomASCIIString(16, 32)
	wantUserID := test.RandomInt64(1 << 30)

	v := NewJWTVerifier(secret)
	token := mintToken(t, secret, jwt.MapClaims{
		"sub": strconv.FormatInt(wantUserID, 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	userID, err := v.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != wantUserID {
		t.Fatalf("expected user %d, got %d", wantUserID, userID)
	}
}

func TestParseTokenUserIDClaim(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := mintToken(t, testSecret, jwt.MapClaims{
		"userId": 7,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	userID, err := v.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected user 7, got %d", userID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := mintToken(t, "other-secret", jwt.MapClaims{"sub": "42"})

	if _, err := v.ParseToken(token); !errors.Is(err, domainErrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := v.ParseToken(token); !errors.Is(err, domainErrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseTokenNonNumericSubject(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := mintToken(t, testSecret, jwt.MapClaims{"sub": "alice"})

	if _, err := v.ParseToken(token); !errors.Is(err, domainErrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseTokenNoIdentityClaim(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := mintToken(t, testSecret, jwt.MapClaims{"scope": "orders"})

	if _, err := v.ParseToken(token); !errors.Is(err, domainErrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	if _, err := v.ParseToken("not.a.jwt"); !errors.Is(err, domainErrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestVerifierName(t *testing.T) {
	if got := NewJWTVerifier(testSecret).Name(); got != "jwt-hs256" {
		t.Fatalf("unexpected name %q", got)
	}
}
