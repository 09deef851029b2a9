package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	token, err := New()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.True(t, IsWellFormed(token))

	other, err := New()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestIsWellFormed(t *testing.T) {
	assert.False(t, IsWellFormed(""))
	assert.False(t, IsWellFormed("abc"))
	assert.False(t, IsWellFormed("zz"+string(make([]byte, 62))))

	token, err := New()
	require.NoError(t, err)
	assert.True(t, IsWellFormed(token))
}
