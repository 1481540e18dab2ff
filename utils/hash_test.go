package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPasswordRoundTrip(t *testing.T) {
	stored := HashPassword("secret")

	assert.True(t, VerifyPassword("secret", stored))
	assert.False(t, VerifyPassword("not-secret", stored))

	// 参数顺序固定：明文在前，哈希在后。反过来传等于把哈希再哈希一遍，永远对不上。
	assert.False(t, VerifyPassword(stored, "secret"))
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
