package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims хранятся в cookie сессии. Subject - id пользователя,
// пустой для анонимной сессии; ID - id сессии.
type SessionClaims struct {
	Remember bool `json:"rem,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey string
	now       func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secretKey: secret, now: time.Now}
}

// Generate подписывает токен сессии
func (m *JWTManager) Generate(sessionID, userID string, remember bool, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := SessionClaims{
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify парсит и проверяет токен сессии
func (m *JWTManager) Verify(raw string) (*SessionClaims, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CSRFToken выводит токен формы, привязанный к id сессии
func (m *JWTManager) CSRFToken(sessionID string) string {
	mac := hmac.New(sha256.New, []byte(m.secretKey))
	mac.Write([]byte("csrf:" + sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckCSRF сравнивает токен за постоянное время
func (m *JWTManager) CheckCSRF(sessionID, token string) bool {
	if token == "" {
		return false
	}
	return hmac.Equal([]byte(m.CSRFToken(sessionID)), []byte(token))
}
