package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Principal is the resolved caller identity passed explicitly into
// every engine operation.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

type appClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the app tokens the engine accepts.
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: "ops-api",
	}
}

// Issue creates a signed token for the given user.
func (s *TokenService) Issue(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := appClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return signed, nil
}

// Validate parses a bearer token and returns the principal it encodes.
func (s *TokenService) Validate(tokenString string) (Principal, error) {
	var claims appClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, apperrors.Unauthorized(err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, apperrors.Unauthorized(err)
	}
	return Principal{UserID: userID, Role: claims.Role}, nil
}
