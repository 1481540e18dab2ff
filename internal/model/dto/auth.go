package dto

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ResendRequest 重发确认邮件请求
type ResendRequest struct {
	Email string `json:"email"`
}

// PasswordResetRequest 请求重置密码
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest 执行重置密码
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UserSnapshot 响应里携带的用户快照
type UserSnapshot struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserSnapshot `json:"user"`
}

// TokenPairResponse 刷新令牌响应
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// EmailStatusResponse 邮箱确认状态（监控的轮询兜底接口）
type EmailStatusResponse struct {
	Confirmed bool `json:"confirmed"`
}
