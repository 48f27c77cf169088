package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims не содержат роль: роль берется из записи пользователя при каждом запросе
type Claims struct {
	UserID    string    `json:"uid"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenManager выпускает и проверяет пары access/refresh токенов (HS256)
type TokenManager struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	return &TokenManager{cfg: cfg, now: time.Now}
}

// IssuePair выпускает новую пару токенов для пользователя
func (m *TokenManager) IssuePair(userID string) (*TokenPair, error) {
	now := m.now()

	access, accessExp, err := m.sign(userID, TokenTypeAccess, m.cfg.AccessSecret, m.cfg.AccessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.sign(userID, TokenTypeRefresh, m.cfg.RefreshSecret, m.cfg.RefreshTTL, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, TokenTypeAccess, m.cfg.AccessSecret)
}

func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, TokenTypeRefresh, m.cfg.RefreshSecret)
}

func (m *TokenManager) sign(userID string, typ TokenType, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) parse(tokenStr string, want TokenType, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken - sha256 от токена; в БД хранится только хеш refresh-токена
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
