package errors

import "errors"

// token 相关的内部哨兵错误，不直接出现在 API 响应里。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")
	ErrDatabaseConnectionNil        = errors.New("database connection is nil")
)

// Is 透传标准库判断，调用方不必同时导入两个 errors 包。
func Is(err, target error) bool {
	return errors.Is(err, target)
}
