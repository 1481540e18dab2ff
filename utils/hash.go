package utils

import (
	"MediBook/config"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// hash 化口令存储，密文核对，增加盐值，避免彩虹表攻击，盐 + ":" + 原文

func HashPassword(password string) string {
	key := config.Cfg.PasswordHashSalt

	sum := sha256.Sum256([]byte(key + ":" + password))

	return hex.EncodeToString(sum[:])
}

// VerifyPassword 常数时间比较，避免时序侧信道
func VerifyPassword(password, storedHash string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// HashToken 确认/重置 token 落 Redis 前先哈希，泄漏缓存内容也无法伪造链接
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
