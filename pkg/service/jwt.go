package service

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "umroh-system/pkg/errors"
)

type JwtCustomClaim struct {
	UserID         int    `json:"userId"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	IsRefreshToken bool   `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateTokens(userID int, fullName, role string) (accessToken string, refreshToken string, err error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

type jwtService struct {
	secretKey       string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration) JWTService {
	return &jwtService{
		secretKey:       secretKey,
		accessTokenExp:  accessTokenExp,
		refreshTokenExp: refreshTokenExp,
	}
}

func (s *jwtService) GenerateTokens(userID int, fullName, role string) (string, string, error) {
	now := time.Now()

	makeToken := func(isRefresh bool, ttl time.Duration) (string, error) {
		claims := &JwtCustomClaim{
			UserID:         userID,
			FullName:       fullName,
			Role:           role,
			IsRefreshToken: isRefresh,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(s.secretKey))
	}

	accessToken, err := makeToken(false, s.accessTokenExp)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := makeToken(true, s.refreshTokenExp)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return claims, nil
}

func (s *jwtService) AccessTokenTTL() time.Duration  { return s.accessTokenExp }
func (s *jwtService) RefreshTokenTTL() time.Duration { return s.refreshTokenExp }
