package queue

// 邮件任务共用一个队列，消费侧靠 kind 字段分流。
const (
	KindConfirmationMail  = "confirmation_mail"
	KindPasswordResetMail = "password_reset_mail"
)

// ConfirmationMailMessage 确认邮件任务
type ConfirmationMailMessage struct {
	Kind        string `json:"kind"`
	MessageID   string `json:"message_id"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	ConfirmURL  string `json:"confirm_url"`
	RequestedAt string `json:"requested_at"`
	Resend      bool   `json:"resend"`
}

// PasswordResetMailMessage 密码重置邮件任务
type PasswordResetMailMessage struct {
	Kind        string `json:"kind"`
	MessageID   string `json:"message_id"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	ResetURL    string `json:"reset_url"`
	RequestedAt string `json:"requested_at"`
}
