package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viahme/viah/pkg/errcode"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("u1", "couple", "secret", 1)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserId)
	assert.Equal(t, "couple", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("u1", "vendor", "secret", 1)
	require.NoError(t, err)

	_, err = ParseToken(token, "other")
	assert.ErrorIs(t, err, errcode.ErrTokenInvalid)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("u1", "vendor", "secret", -1)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, errcode.ErrTokenExpired)
}

func TestValidateTokenMismatch(t *testing.T) {
	token, err := GenerateToken("u1", "couple", "secret", 1)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret", "u2")
	assert.ErrorIs(t, err, errcode.ErrTokenMismatch)

	claims, err := ValidateToken(token, "secret", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserId)
}
