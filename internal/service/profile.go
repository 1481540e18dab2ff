package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/form"
	"MediBook/internal/model"
	"MediBook/internal/model/dto"
	"MediBook/internal/repository"
	"MediBook/pkg/errors"
	"MediBook/pkg/geocode"
	"MediBook/pkg/logger"
	"MediBook/pkg/metrics"
	"MediBook/pkg/objstore"
	"MediBook/utils"
)

// 提交管线。步骤严格按序执行：全量校验 -> 必传文件上传（致命）->
// 附加文件上传（尽力而为，逐个串行）-> 表探测 -> 档案 upsert（致命）->
// 资质/语言 upsert（尽力而为）。已上传对象在后续失败时不回滚，
// 孤儿对象交给 scheduler 的对账清理。

var (
	profileService *ProfileService
	profileOnce    sync.Once
)

func Profile() *ProfileService {
	profileOnce.Do(func() {
		profileService = &ProfileService{
			store:    deps.Store,
			geo:      deps.Geo,
			profiles: repository.NewProfileRepo(deps.DB),
			users:    repository.NewUserRepo(deps.DB),
		}
	})
	return profileService
}

// profileStore 提交管线需要的档案持久化操作
type profileStore interface {
	Ping(ctx context.Context) error
	Upsert(ctx context.Context, p *model.Profile) error
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	UpsertQualifications(ctx context.Context, rows []model.Qualification) error
	UpsertLanguages(ctx context.Context, rows []model.Language) error
}

// userStore 档案冗余字段回填与提交成功后的角色升级
type userStore interface {
	GetByPublicID(ctx context.Context, publicID int64) (*model.User, error)
	PromoteToDoctor(ctx context.Context, publicID int64) error
}

type ProfileService struct {
	store    objstore.Store
	geo      geocode.Client
	profiles profileStore
	users    userStore
}

// Document 一个待上传的文件部分
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Submission 解析 multipart 之后的完整提交
type Submission struct {
	Data                form.Data
	IdentityProof       *Document
	MedicalLicense      *Document
	ProfileImage        *Document
	AdditionalDocuments []Document
}

// fileRefOf 把上传部分折算成 schema 校验用的文件句柄
func fileRefOf(d *Document) *form.FileRef {
	if d == nil {
		return nil
	}
	return &form.FileRef{
		Name:        d.Filename,
		ContentType: d.ContentType,
		Size:        int64(len(d.Data)),
	}
}

// Submit 执行一次完整提交。
// 校验失败返回字段错误；其余失败返回错误码；部分成功（附加文件、
// 子表写入失败）照常返回成功结果。
func (s *ProfileService) Submit(ctx context.Context, userID int64, sub Submission) (*dto.SubmitResult, form.Errors, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.RecordSubmission(outcome, time.Since(start).Seconds())
	}()

	// 文件句柄以实际收到的 multipart 部分为准，客户端自述不可信
	data := sub.Data
	data.VerificationDocuments.IdentityProof = fileRefOf(sub.IdentityProof)
	data.VerificationDocuments.MedicalLicense = fileRefOf(sub.MedicalLicense)
	data.VerificationDocuments.AdditionalDocuments = nil
	for i := range sub.AdditionalDocuments {
		ref := fileRefOf(&sub.AdditionalDocuments[i])
		data.VerificationDocuments.AdditionalDocuments = append(data.VerificationDocuments.AdditionalDocuments, *ref)
	}
	if sub.ProfileImage != nil {
		data.PersonalInfo.ProfileImage = fileRefOf(sub.ProfileImage)
	}

	if fieldErrs := form.ValidateAll(data); !fieldErrs.Empty() {
		outcome = "validation_failed"
		return nil, fieldErrs, errors.ValidationFailed
	}

	lat, lng := s.resolveLocation(ctx, data.PracticeDetails.Address)

	// 必传文件，任何一个失败整个请求失败
	identityURL, err := s.upload(ctx, "identity_proof", sub.IdentityProof)
	if err != nil {
		logger.Logger.Error("Identity proof upload failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		outcome = "upload_failed"
		return nil, nil, errors.UploadFailed
	}

	licenseURL, err := s.upload(ctx, "medical_license", sub.MedicalLicense)
	if err != nil {
		logger.Logger.Error("Medical license upload failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		outcome = "upload_failed"
		return nil, nil, errors.UploadFailed
	}

	// 头像可选，失败只是没有头像
	var profilePictureURL *string
	if sub.ProfileImage != nil {
		if u, err := s.upload(ctx, "profile_image", sub.ProfileImage); err != nil {
			logger.Logger.Warn("Profile image upload failed, continuing without it",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		} else {
			profilePictureURL = &u
		}
	}

	// 附加文件逐个串行上传，失败的从结果里剔除
	additionalURLs := make([]string, 0, len(sub.AdditionalDocuments))
	for i := range sub.AdditionalDocuments {
		u, err := s.upload(ctx, "additional", &sub.AdditionalDocuments[i])
		if err != nil {
			logger.Logger.Warn("Additional document upload failed, skipping",
				zap.Int64("user_id", userID),
				zap.Int("index", i),
				zap.String("filename", sub.AdditionalDocuments[i].Filename),
				zap.Error(err),
			)
			continue
		}
		additionalURLs = append(additionalURLs, u)
	}

	// 表探测，确认持久层可达再开始写
	if err := s.profiles.Ping(ctx); err != nil {
		logger.Logger.Error("Profiles table unreachable",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		outcome = "database_error"
		return nil, nil, errors.DatabaseError
	}

	record, err := buildProfileRecord(userID, data, identityURL, licenseURL, additionalURLs, profilePictureURL, lat, lng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build profile record: %w", err)
	}

	// 姓名从用户表冗余过来，取不到就留空
	if user, err := s.users.GetByPublicID(ctx, userID); err == nil && user != nil {
		record.FullName = user.FullName
	}

	if err := s.profiles.Upsert(ctx, record); err != nil {
		logger.Logger.Error("Profile upsert failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		outcome = "database_error"
		return nil, nil, errors.DatabaseError
	}

	s.writeChildren(ctx, userID, data)

	if err := s.users.PromoteToDoctor(ctx, userID); err != nil {
		logger.Logger.Warn("Failed to promote user to doctor role",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	outcome = "success"
	logger.Logger.Info("Doctor profile submitted",
		zap.Int64("user_id", userID),
		zap.Int("additional_documents", len(additionalURLs)),
	)

	return &dto.SubmitResult{
		Message: "Doctor profile created successfully",
		Files: dto.SubmitFiles{
			IdentityProof:       identityURL,
			MedicalLicense:      licenseURL,
			AdditionalDocuments: additionalURLs,
		},
	}, nil, nil
}

// resolveLocation 提交时的坐标兜底：没有坐标就正向编码一次，
// 查不到用默认坐标，绝不让坐标问题挡掉提交。
func (s *ProfileService) resolveLocation(ctx context.Context, addr form.Address) (float64, float64) {
	if addr.Location != nil {
		return addr.Location.Lat, addr.Location.Lng
	}

	fallbackLat := config.Cfg.DefaultLocationLat
	fallbackLng := config.Cfg.DefaultLocationLng

	if strings.TrimSpace(addr.City) == "" {
		return fallbackLat, fallbackLng
	}

	query := addr.StreetAddress + ", " + addr.City + ", " + addr.Country
	res, err := s.geo.Forward(ctx, query)
	if err != nil {
		logger.Logger.Warn("Submission-time geocode failed, using default location",
			zap.String("city", addr.City),
			zap.Error(err),
		)
		return fallbackLat, fallbackLng
	}
	return res.Lat, res.Lng
}

// upload 上传一个文件。路径：<类别>/<毫秒时间戳>-<uuid>.<扩展名>，
// 不做内容寻址，两份相同文件会是两个对象。
func (s *ProfileService) upload(ctx context.Context, category string, doc *Document) (string, error) {
	path := fmt.Sprintf("%s/%d-%s.%s",
		category,
		time.Now().UnixMilli(),
		uuid.NewString(),
		utils.FileExtension(doc.Filename),
	)
	url, err := s.store.Upload(ctx, path, doc.ContentType, doc.Data)
	if err != nil {
		metrics.RecordDocumentUpload(category, "failure", 0)
		return "", err
	}
	metrics.RecordDocumentUpload(category, "success", int64(len(doc.Data)))
	return url, nil
}

// writeChildren 子表写入，失败记日志不影响提交结果。
func (s *ProfileService) writeChildren(ctx context.Context, userID int64, data form.Data) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil || profile == nil {
		logger.Logger.Warn("Failed to reload profile for child writes",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}

	quals := make([]model.Qualification, 0, len(data.ProfessionalInfo.Qualifications))
	for _, q := range data.ProfessionalInfo.Qualifications {
		quals = append(quals, model.Qualification{
			ProfileID:   profile.ID,
			Degree:      q.Degree,
			Institution: q.Institution,
			Year:        q.Year,
		})
	}
	if err := s.profiles.UpsertQualifications(ctx, quals); err != nil {
		logger.Logger.Warn("Qualification batch upsert failed, continuing",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	langs := make([]model.Language, 0, len(data.ProfessionalInfo.Languages))
	for _, l := range data.ProfessionalInfo.Languages {
		langs = append(langs, model.Language{
			ProfileID: profile.ID,
			Language:  l,
		})
	}
	if err := s.profiles.UpsertLanguages(ctx, langs); err != nil {
		logger.Logger.Warn("Language batch upsert failed, continuing",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func buildProfileRecord(
	userID int64,
	data form.Data,
	identityURL, licenseURL string,
	additionalURLs []string,
	profilePictureURL *string,
	lat, lng float64,
) (*model.Profile, error) {
	addressJSON, err := json.Marshal(data.PracticeDetails.Address)
	if err != nil {
		return nil, fmt.Errorf("marshal address: %w", err)
	}

	hoursJSON, err := json.Marshal(data.PracticeDetails.AvailableHours)
	if err != nil {
		return nil, fmt.Errorf("marshal available hours: %w", err)
	}

	docsJSON, err := json.Marshal(additionalURLs)
	if err != nil {
		return nil, fmt.Errorf("marshal additional documents: %w", err)
	}

	return &model.Profile{
		UserID:              userID,
		PhoneNumber:         data.PersonalInfo.Phone,
		Gender:              data.PersonalInfo.Gender,
		DateOfBirth:         data.PersonalInfo.DateOfBirth,
		Bio:                 data.PersonalInfo.Bio,
		Specialization:      data.ProfessionalInfo.Specialization,
		LicenseNumber:       data.ProfessionalInfo.LicenseNumber,
		YearsOfExperience:   data.ProfessionalInfo.Experience,
		Address:             string(addressJSON),
		AvailableHours:      string(hoursJSON),
		ProfilePicture:      profilePictureURL,
		IdentityProof:       identityURL,
		MedicalLicense:      licenseURL,
		AdditionalDocuments: string(docsJSON),
		Lat:                 lat,
		Long:                lng,
	}, nil
}
