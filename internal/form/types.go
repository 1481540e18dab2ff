package form

// 多步表单的载荷类型，字段名与前端提交的 JSON 保持一致。

// Location 经纬度坐标
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address 执业地址
type Address struct {
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postalCode"`
	Country       string    `json:"country"`
	Location      *Location `json:"location,omitempty"`
}

// Qualification 一条学历/资质
type Qualification struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

// TimeSlot 出诊时间段
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayHours 某天的出诊时间
type DayHours struct {
	Day   string     `json:"day"`
	Slots []TimeSlot `json:"slots"`
}

// FileRef 文件句柄元数据。多步阶段只记录元信息，真正的字节流在最终提交时走 multipart。
type FileRef struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// PersonalInfo 第一步：个人信息
type PersonalInfo struct {
	Phone        string   `json:"phone"`
	Gender       string   `json:"gender"`
	DateOfBirth  string   `json:"dateOfBirth"`
	Bio          string   `json:"bio"`
	ProfileImage *FileRef `json:"profileImage,omitempty"`
}

// ProfessionalInfo 第二步：职业信息
type ProfessionalInfo struct {
	Specialization string          `json:"specialization"`
	LicenseNumber  string          `json:"licenseNumber"`
	Experience     int             `json:"experience"`
	Qualifications []Qualification `json:"qualifications"`
	Languages      []string        `json:"languages"`
}

// PracticeDetails 第三步：执业信息
type PracticeDetails struct {
	PracticeName    string     `json:"practiceName"`
	Address         Address    `json:"address"`
	ConsultationFee float64    `json:"consultationFee"`
	AvailableHours  []DayHours `json:"availableHours,omitempty"`
}

// VerificationDocuments 第四步：验证文件
type VerificationDocuments struct {
	IdentityProof       *FileRef  `json:"identityProof,omitempty"`
	MedicalLicense      *FileRef  `json:"medicalLicense,omitempty"`
	AdditionalDocuments []FileRef `json:"additionalDocuments,omitempty"`
	TermsAgreed         bool      `json:"termsAgreed"`
}

// Data 四步合并后的完整载荷
type Data struct {
	PersonalInfo          PersonalInfo          `json:"personalInfo"`
	ProfessionalInfo      ProfessionalInfo      `json:"professionalInfo"`
	PracticeDetails       PracticeDetails       `json:"practiceDetails"`
	VerificationDocuments VerificationDocuments `json:"verificationDocuments"`
}
