package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManagerRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Generate("u-1", "alice", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, Identity{UserID: "u-1", Username: "alice", Email: "a@x.com"}, id)
}

func TestManagerRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Generate("u-1", "alice", "a@x.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Generate("u-1", "alice", "a@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestManagerMintsFreshTokens(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	first, err := m.Generate("u-1", "alice", "a@x.com")
	require.NoError(t, err)

	second, err := m.Generate("u-1", "alice", "a@x.com")
	require.NoError(t, err)

	// distinct jti per token even for identical claims
	require.NotEqual(t, first, second)
}
