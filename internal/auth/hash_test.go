package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hash := HashPassword("hunter2")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashPassword("hunter2"), "hashing is deterministic")
	assert.NotEqual(t, hash, HashPassword("hunter3"))
}

func TestCheckPassword(t *testing.T) {
	assert.True(t, CheckPassword("hunter2", "hunter2"))
	assert.False(t, CheckPassword("hunter2", "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))
	assert.True(t, CheckPassword("", ""))
}
