package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "hireflow-test",
	})
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	claims, err = m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTokenManager_RejectsSwappedTokens(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair("user-1")
	require.NoError(t, err)

	// refresh подписан другим секретом, поэтому подпись не сойдется
	_, err = m.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager()
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	pair, err := m.IssuePair("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestTokenManager_UniquePerIssue(t *testing.T) {
	m := newTestManager()
	a, err := m.IssuePair("user-1")
	require.NoError(t, err)
	b, err := m.IssuePair("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, HashToken(a.RefreshToken), HashToken(b.RefreshToken))
}

func TestPasswordHash(t *testing.T) {
	SetBcryptCost(4)
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
