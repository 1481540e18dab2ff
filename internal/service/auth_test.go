package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MediBook/internal/model"
	"MediBook/utils"
)

func TestLoginCredentialCheck(t *testing.T) {
	user := &model.User{
		PublicID:     7001,
		Email:        "doc@example.com",
		PasswordHash: utils.HashPassword("correct horse"),
	}

	assert.True(t, credentialsValid(user, "correct horse"))
	assert.False(t, credentialsValid(user, "wrong password"))
	assert.False(t, credentialsValid(nil, "correct horse"))

	// 存量哈希当明文传进来绝不能通过，否则说明比对顺序反了
	assert.False(t, credentialsValid(user, user.PasswordHash))
}
