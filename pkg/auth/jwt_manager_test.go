package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateVerify(t *testing.T) {
	m := NewJWTManager("secret")

	raw, exp, err := m.Generate("sid-1", "user-1", true, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.ID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.Remember)
}

func TestJWTManager_VerifyRejects(t *testing.T) {
	m := NewJWTManager("secret")
	other := NewJWTManager("other-secret")

	foreign, _, err := other.Generate("sid", "", false, time.Hour)
	require.NoError(t, err)

	expiredMgr := NewJWTManager("secret")
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredMgr.Generate("sid", "", false, time.Hour)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong key", token: foreign},
		{name: "expired", token: expired},
		{name: "missing session id", token: noID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTManager_CSRF(t *testing.T) {
	m := NewJWTManager("secret")

	tok := m.CSRFToken("sid-1")
	assert.Len(t, tok, 64)
	assert.True(t, m.CheckCSRF("sid-1", tok))
	assert.False(t, m.CheckCSRF("sid-2", tok))
	assert.False(t, m.CheckCSRF("sid-1", ""))
	assert.NotEqual(t, tok, NewJWTManager("other").CSRFToken("sid-1"))
}
