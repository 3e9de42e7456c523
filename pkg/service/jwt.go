package service

import (
	"errors"
	"time"

	apperrors "calibration-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

type JwtCustomClaim struct {
	UserID         uint64 `json:"userId"`
	Role           string `json:"role"`
	IsRefreshToken bool
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateTokens(userID uint64, role string) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey       string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey:       secretKey,
		AccessTokenExp:  accessTokenExp,
		RefreshTokenExp: refreshTokenExp,
	}
}

func (service *jwtService) GenerateTokens(userID uint64, role string) (string, string, error) {
	accessTokenClaims := &JwtCustomClaim{
		UserID:         userID,
		Role:           role,
		IsRefreshToken: false,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(service.AccessTokenExp)),
		},
	}

	refreshTokenClaims := &JwtCustomClaim{
		UserID:         userID,
		Role:           role,
		IsRefreshToken: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(service.RefreshTokenExp)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS512, accessTokenClaims)
	accessTokenString, err := accessToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", err
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS512, refreshTokenClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}

func (service *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(service.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (service *jwtService) GetAccessTokenTTL() time.Duration {
	return service.AccessTokenExp
}

func (service *jwtService) GetRefreshTokenTTL() time.Duration {
	return service.RefreshTokenExp
}
