package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL token 預設有效時間
const DefaultTokenTTL = 100 * time.Hour

// ErrInvalidToken token 格式錯誤、過期或簽章不符
var ErrInvalidToken = errors.New("invalid token")

// customerRef 放在 claims 內的客戶資訊
type customerRef struct {
	ID string `json:"id"`
}

// Claims JWT payload: {"customer":{"id":"..."},"exp":...}
type Claims struct {
	Customer customerRef `json:"customer"`
	jwt.RegisteredClaims
}

// TokenService 以 HS256 發行與驗證 token
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService 建立 TokenService
//
// 參數:
//
//	secret: HMAC 金鑰，不可為空
//	ttl: 有效時間，<= 0 時使用 DefaultTokenTTL
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue 為客戶發行 token
func (s *TokenService) Issue(customerID string) (string, error) {
	now := s.now()
	claims := Claims{
		Customer: customerRef{ID: customerID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify 驗證 token 並回傳客戶 ID
func (s *TokenService) Verify(token string) (string, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Customer.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.Customer.ID, nil
}
