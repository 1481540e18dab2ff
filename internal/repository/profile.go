package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MediBook/internal/model"
)

// ProfileRepo 医生档案及其子表访问
type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Ping 档案表可达性探测，提交管线在写入前调用。
func (r *ProfileRepo) Ping(ctx context.Context) error {
	var count int64
	return r.db.WithContext(ctx).Model(&model.Profile{}).Limit(1).Count(&count).Error
}

// Upsert 以 user_id 为冲突键写入档案，重复提交覆盖旧值。
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "phone_number", "gender", "date_of_birth", "bio",
			"specialization", "license_number", "years_of_experience",
			"address", "available_hours", "profile_picture",
			"identity_proof", "medical_license", "additional_documents",
			"lat", "long", "updated_at",
		}),
	}).Create(p).Error
}

// GetByUserID 按用户查询档案，未找到时返回 (nil, nil)。
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertQualifications 批量写入资质，冲突键 (profile_id, degree, institution)。
func (r *ProfileRepo) UpsertQualifications(ctx context.Context, rows []model.Qualification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "profile_id"}, {Name: "degree"}, {Name: "institution"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"year", "updated_at"}),
	}).Create(&rows).Error
}

// UpsertLanguages 批量写入语言，冲突键 (profile_id, language)。
func (r *ProfileRepo) UpsertLanguages(ctx context.Context, rows []model.Language) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "language"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// ListDocumentURLs 列出所有档案引用的文档 URL（对账清理任务用）。
func (r *ProfileRepo) ListDocumentURLs(ctx context.Context) ([]model.ProfileDocuments, error) {
	var rows []model.ProfileDocuments
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Select("identity_proof", "medical_license", "profile_picture", "additional_documents").
		Find(&rows).Error
	return rows, err
}
