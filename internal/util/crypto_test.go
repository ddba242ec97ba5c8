package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateToken(t *testing.T) {
	t.Run("produces 64 hex characters", func(t *testing.T) {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
	})

	t.Run("produces distinct tokens", func(t *testing.T) {
		a, err := GenerateToken()
		require.NoError(t, err)
		b, err := GenerateToken()
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("abc", "abc"))
	assert.False(t, ConstantTimeEqual("abc", "abd"))
	assert.False(t, ConstantTimeEqual("abc", "abcd"))
}

func TestCheckTokenHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("station-token"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckTokenHash("station-token", string(hash)))
	assert.False(t, CheckTokenHash("wrong-token", string(hash)))
}

func TestMaskCode(t *testing.T) {
	assert.Equal(t, "****", MaskCode("AB"))
	assert.Equal(t, "****", MaskCode("ABCD"))
	assert.Equal(t, "A1B2****", MaskCode("A1B2C3D4"))
}
