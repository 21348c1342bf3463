//go:build unit

package canceltoken_test

import (
	"testing"

	"slotbook/internal/pkg/canceltoken"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndCompare(t *testing.T) {
	token, hash, err := canceltoken.Generate()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, token, hash)

	assert.NoError(t, canceltoken.Compare(hash, token))
}

func TestCompare(t *testing.T) {
	_, hash, err := canceltoken.Generate()
	require.NoError(t, err)

	t.Run("wrong token rejected", func(t *testing.T) {
		assert.ErrorIs(t, canceltoken.Compare(hash, "wrong"), canceltoken.ErrTokenMismatch)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		assert.ErrorIs(t, canceltoken.Compare(hash, ""), canceltoken.ErrEmptyToken)
	})
}

func TestTokensAreUnique(t *testing.T) {
	a, _, err := canceltoken.Generate()
	require.NoError(t, err)
	b, _, err := canceltoken.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
