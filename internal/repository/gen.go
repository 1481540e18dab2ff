package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"MediBook/storage/database"
)

// 查询接口定义，gorm.io/gen 据此生成 internal/repository/query。
// 生成的代码不入库，改表结构后重跑 cmd/gen。

// UserQuerier 用户查询接口
type UserQuerier interface {
	// GetByEmail 按邮箱查询用户
	// SELECT * FROM @@table WHERE email = @email AND deleted_at IS NULL LIMIT 1
	GetByEmail(email string) (*gen.T, error)

	// GetByPublicID 按对外 ID 查询用户
	// SELECT * FROM @@table WHERE public_id = @publicID AND deleted_at IS NULL LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListUnconfirmedBefore 查询注册超过指定时间仍未确认的用户（清理任务用）
	// SELECT * FROM @@table
	// WHERE email_confirmed_at IS NULL
	//   AND created_at < @cutoff
	//   AND deleted_at IS NULL
	// LIMIT @limit
	ListUnconfirmedBefore(cutoff string, limit int) ([]*gen.T, error)
}

// ProfileQuerier 医生档案查询接口
type ProfileQuerier interface {
	// GetByUserID 按用户查询档案
	// SELECT * FROM @@table WHERE user_id = @userID AND deleted_at IS NULL LIMIT 1
	GetByUserID(userID int64) (*gen.T, error)

	// ListDocumentColumns 列出所有档案的文档 URL 列（对账清理任务用）
	// SELECT identity_proof, medical_license, profile_picture, additional_documents
	// FROM @@table
	// WHERE deleted_at IS NULL
	ListDocumentColumns() ([]gen.M, error)
}

// QualificationQuerier 资质查询接口
type QualificationQuerier interface {
	// ListByProfileID 按档案查询资质
	// SELECT * FROM @@table WHERE profile_id = @profileID AND deleted_at IS NULL ORDER BY year
	ListByProfileID(profileID int64) ([]*gen.T, error)
}

// LanguageQuerier 语言查询接口
type LanguageQuerier interface {
	// ListByProfileID 按档案查询语言
	// SELECT * FROM @@table WHERE profile_id = @profileID AND deleted_at IS NULL
	ListByProfileID(profileID int64) ([]*gen.T, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migration: %w", err)
	}

	db := database.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	userModel := g.GenerateModel("users")
	profileModel := g.GenerateModel("profiles")
	qualificationModel := g.GenerateModel("qualifications")
	languageModel := g.GenerateModel("languages")

	g.ApplyInterface(func(UserQuerier) {}, userModel)
	g.ApplyInterface(func(ProfileQuerier) {}, profileModel)
	g.ApplyInterface(func(QualificationQuerier) {}, qualificationModel)
	g.ApplyInterface(func(LanguageQuerier) {}, languageModel)

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
