package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenLifespan = 360000 * time.Second

var ErrInvalidToken = errors.New("invalid token")

type JWTService struct {
	secretKey     []byte
	tokenLifespan time.Duration
	now           func() time.Time
}

type TokenUser struct {
	ID uuid.UUID `json:"id"`
}

// CustomClaims keeps the `{ "user": { "id": ... } }` payload the web client expects.
type CustomClaims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey string, tokenLifespan time.Duration) *JWTService {
	if tokenLifespan <= 0 {
		tokenLifespan = DefaultTokenLifespan
	}
	return &JWTService{
		secretKey:     []byte(secretKey),
		tokenLifespan: tokenLifespan,
		now:           time.Now,
	}
}

func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := CustomClaims{
		TokenUser{ID: userID},
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifespan)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID.String(),
			Issuer:    "devconnect-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}

	return signedString, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature algorithm: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: cannot parse token claims", ErrInvalidToken)
	}
	if claims.User.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: token carries no user id", ErrInvalidToken)
	}

	return claims, nil
}
