package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("manager-password")
	require.NoError(t, err)

	assert.True(t, Verify("manager-password", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestHashTokenIsDeterministic(t *testing.T) {
	a := HashToken("refresh-token")
	b := HashToken("refresh-token")

	assert.Equal(t, a, b, "token lookup depends on a stable hash")
	assert.NotEqual(t, a, HashToken("other-token"))
	assert.Len(t, a, 64)
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
}
