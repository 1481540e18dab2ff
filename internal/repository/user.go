package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"MediBook/internal/model"
)

// UserRepo 用户表访问
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// GetByEmail 按邮箱查询，未找到时返回 (nil, nil)。
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByPublicID 按对外 ID 查询，未找到时返回 (nil, nil)。
func (r *UserRepo) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// MarkConfirmed 标记邮箱已确认，幂等。
func (r *UserRepo) MarkConfirmed(ctx context.Context, publicID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("public_id = ? AND email_confirmed_at IS NULL", publicID).
		Updates(map[string]interface{}{
			"email_confirmed_at": at,
			"status":             model.UserStatusConfirmed,
		}).Error
}

// UpdatePassword 更新密码哈希
func (r *UserRepo) UpdatePassword(ctx context.Context, publicID int64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("public_id = ?", publicID).
		Update("password_hash", passwordHash).Error
}

// PromoteToDoctor 医生档案提交成功后升级角色
func (r *UserRepo) PromoteToDoctor(ctx context.Context, publicID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("public_id = ?", publicID).
		Update("role", model.UserRoleDoctor).Error
}
