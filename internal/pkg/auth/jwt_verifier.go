package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
)

// JWTVerifier validates HS256 tokens minted by the marketplace auth
// service. This service never issues tokens itself.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier builds JWTVerifier over a shared signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// ParseToken verifies the signature and expiry and returns the user id
// carried in the subject claim.
func (v *JWTVerifier) ParseToken(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domainErrors.ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, domainErrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domainErrors.ErrInvalidToken
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, domainErrors.ErrInvalidToken
		}
		return id, nil
	}

	// Some issuers put a numeric userId claim instead of sub.
	if raw, ok := claims["userId"].(float64); ok {
		return int64(raw), nil
	}

	return 0, domainErrors.ErrInvalidToken
}

func (v *JWTVerifier) Name() string {
	return "jwt-hs256"
}
