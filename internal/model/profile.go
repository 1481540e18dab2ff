package model

import "encoding/json"

// Profile 医生档案，以 user_id 为唯一键做 upsert，重复提交覆盖旧值。
// address / additional_documents / available_hours 以 JSON 文本存储，
// identity_proof 与 medical_license 在提交成功后保证非空。

type Profile struct {
	BaseModel
	UserID int64 `gorm:"uniqueIndex;not null" json:"user_id"`

	FullName    string `gorm:"type:varchar(128);not null;default:''" json:"full_name"`
	PhoneNumber string `gorm:"type:varchar(15);not null" json:"phone_number"`
	Gender      string `gorm:"type:varchar(8);not null" json:"gender"`
	DateOfBirth string `gorm:"type:varchar(32);not null" json:"date_of_birth"`
	Bio         string `gorm:"type:varchar(500);not null;default:''" json:"bio"`

	Specialization    string `gorm:"type:varchar(128);not null" json:"specialization"`
	LicenseNumber     string `gorm:"type:varchar(64);not null" json:"license_number"`
	YearsOfExperience int    `gorm:"not null;default:0" json:"years_of_experience"`

	// 执业地址整体序列化为 JSON 文本
	Address        string `gorm:"type:text;not null;default:''" json:"address"`
	AvailableHours string `gorm:"type:text;not null;default:''" json:"available_hours"`

	ProfilePicture      *string `gorm:"type:text" json:"profile_picture,omitempty"`
	IdentityProof       string  `gorm:"type:text;not null" json:"identity_proof"`
	MedicalLicense      string  `gorm:"type:text;not null" json:"medical_license"`
	AdditionalDocuments string  `gorm:"type:text;not null;default:'[]'" json:"additional_documents"`

	Lat  float64 `gorm:"type:decimal(10,7)" json:"lat"`
	Long float64 `gorm:"type:decimal(10,7)" json:"long"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// ProfileDocuments 档案里的文档 URL 列，对账清理任务按它收集存活对象。
type ProfileDocuments struct {
	IdentityProof       string  `json:"identity_proof"`
	MedicalLicense      string  `json:"medical_license"`
	ProfilePicture      *string `json:"profile_picture"`
	AdditionalDocuments string  `json:"additional_documents"`
}

// DecodeDocumentList 解开 additional_documents 的 JSON 文本，
// 解不开当作空列表处理。
func DecodeDocumentList(raw string) []string {
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil
	}
	return urls
}

// Qualification 资质记录，父档案写入成功后批量 upsert，失败不阻断提交。
type Qualification struct {
	BaseModel
	ProfileID   int64  `gorm:"uniqueIndex:uidx_qualifications_profile_degree;not null" json:"profile_id"`
	Degree      string `gorm:"uniqueIndex:uidx_qualifications_profile_degree;type:varchar(128);not null" json:"degree"`
	Institution string `gorm:"uniqueIndex:uidx_qualifications_profile_degree;type:varchar(255);not null" json:"institution"`
	Year        int    `gorm:"not null" json:"year"`
}

func (Qualification) TableName() string {
	return "qualifications"
}

// Language 语言记录，同 Qualification 的尽力而为策略。
type Language struct {
	BaseModel
	ProfileID int64  `gorm:"uniqueIndex:uidx_languages_profile_language;not null" json:"profile_id"`
	Language  string `gorm:"uniqueIndex:uidx_languages_profile_language;type:varchar(64);not null" json:"language"`
}

func (Language) TableName() string {
	return "languages"
}
