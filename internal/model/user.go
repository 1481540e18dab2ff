package model

import "time"

// UserRole 用户角色枚举
type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleDoctor  UserRole = "doctor"
)

// UserStatus 用户状态枚举
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"   // 已注册，邮箱未确认
	UserStatusConfirmed UserStatus = "confirmed" // 邮箱已确认
)

// User 用户模型

type User struct {
	BaseModel
	PublicID     int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	Email        string     `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string     `gorm:"type:char(64);not null" json:"-"`
	FullName     string     `gorm:"type:varchar(128);not null;default:''" json:"full_name"`
	Role         UserRole   `gorm:"type:varchar(16);not null;default:'patient';index:idx_users_role" json:"role"`
	Status       UserStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_users_status" json:"status"`

	// 邮箱确认时间，空表示未确认
	EmailConfirmedAt *time.Time `gorm:"index" json:"email_confirmed_at,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsConfirmed 邮箱是否已确认
func (u *User) IsConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// StatusToStringMap 状态到字符串的映射
var StatusToStringMap = map[UserStatus]string{
	UserStatusPending:   "pending",
	UserStatusConfirmed: "confirmed",
}
