package auth

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

func mintToken(t *testing.T, key paseto.V4SymmetricKey, userID, role string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(userID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(expiresIn))
	require.NoError(t, token.Set("user_id", userID))
	require.NoError(t, token.Set("role", role))

	return token.V4Encrypt(key, nil)
}

func randomKey(t *testing.T) (paseto.V4SymmetricKey, string) {
	t.Helper()

	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	require.NoError(t, err)
	return key, hex.EncodeToString(raw)
}

func setupVerifier(t *testing.T) (*TokenVerifier, paseto.V4SymmetricKey) {
	t.Helper()

	key, keyHex := randomKey(t)
	verifier, err := NewTokenVerifier(keyHex)
	require.NoError(t, err)
	return verifier, key
}

func TestNewTokenVerifier_KeyValidation(t *testing.T) {
	_, err := NewTokenVerifier("short")
	assert.Error(t, err)

	_, err = NewTokenVerifier(strings.Repeat("z", 64))
	assert.Error(t, err)
}

func TestVerify_ValidToken(t *testing.T) {
	verifier, key := setupVerifier(t)

	identity, err := verifier.Verify(mintToken(t, key, "usr-1", "member", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "usr-1", identity.UserID)
	assert.Equal(t, domain.RoleMember, identity.Role)
}

func TestVerify_AdminRole(t *testing.T) {
	verifier, key := setupVerifier(t)

	identity, err := verifier.Verify(mintToken(t, key, "usr-9", "admin", time.Hour))
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())
}

func TestVerify_UnknownRoleDowngradesToMember(t *testing.T) {
	verifier, key := setupVerifier(t)

	identity, err := verifier.Verify(mintToken(t, key, "usr-1", "superuser", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, identity.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier, key := setupVerifier(t)

	_, err := verifier.Verify(mintToken(t, key, "usr-1", "member", -time.Minute))
	assert.Error(t, err)
}

func TestVerify_WrongKey(t *testing.T) {
	verifier, _ := setupVerifier(t)
	otherKey, _ := randomKey(t)

	_, err := verifier.Verify(mintToken(t, otherKey, "usr-1", "member", time.Hour))
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	verifier, _ := setupVerifier(t)

	_, err := verifier.Verify("v4.local.not-a-real-token")
	assert.Error(t, err)
}
