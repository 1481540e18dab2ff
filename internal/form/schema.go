package form

import (
	"fmt"
	"strings"
)

// 每一步一个纯函数校验器，返回按字段路径索引的错误，既给分步校验用，
// 也拼成提交端点的全量校验。规则本身没有副作用。

// FieldError 单条字段错误
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Errors 字段错误集合
type Errors []FieldError

func (e Errors) Empty() bool {
	return len(e) == 0
}

// HasPath 是否包含指定字段路径的错误
func (e Errors) HasPath(path string) bool {
	for _, fe := range e {
		if fe.Path == path {
			return true
		}
	}
	return false
}

func (e *Errors) add(path, message string) {
	*e = append(*e, FieldError{Path: path, Message: message})
}

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// ValidDocumentMIMEs 验证文件接受的 MIME 类型
var ValidDocumentMIMEs = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// ValidatePersonalInfo 个人信息校验
func ValidatePersonalInfo(p PersonalInfo) Errors {
	var errs Errors

	if len(p.Phone) < 4 {
		errs.add("personalInfo.phone", "Phone number must be at least 4 digits")
	} else if len(p.Phone) > 15 {
		errs.add("personalInfo.phone", "Phone number cannot exceed 15 digits")
	}

	if !validGenders[p.Gender] {
		errs.add("personalInfo.gender", "Gender must be one of male, female, other")
	}

	if p.DateOfBirth == "" {
		errs.add("personalInfo.dateOfBirth", "Date of birth is required")
	}

	if len(p.Bio) > 500 {
		errs.add("personalInfo.bio", "Bio must be less than 500 characters")
	}

	return errs
}

// ValidateProfessionalInfo 职业信息校验
func ValidateProfessionalInfo(p ProfessionalInfo) Errors {
	var errs Errors

	if len(p.Specialization) < 2 {
		errs.add("professionalInfo.specialization", "Specialization is required")
	}

	if len(p.LicenseNumber) < 5 {
		errs.add("professionalInfo.licenseNumber", "License number is required")
	}

	if p.Experience < 0 {
		errs.add("professionalInfo.experience", "Experience must be a positive number")
	}

	if len(p.Qualifications) < 1 {
		errs.add("professionalInfo.qualifications", "At least one qualification is required")
	}

	for i, q := range p.Qualifications {
		prefix := fmt.Sprintf("professionalInfo.qualifications.%d", i)
		if len(q.Degree) < 2 {
			errs.add(prefix+".degree", "Degree is required")
		}
		if len(q.Institution) < 2 {
			errs.add(prefix+".institution", "Institution is required")
		}
		if q.Year < 1950 {
			errs.add(prefix+".year", "Year must be after 1950")
		}
	}

	if len(p.Languages) < 1 {
		errs.add("professionalInfo.languages", "At least one language is required")
	}

	return errs
}

// ValidatePracticeDetails 执业信息校验
func ValidatePracticeDetails(p PracticeDetails) Errors {
	var errs Errors

	if len(p.PracticeName) < 2 {
		errs.add("practiceDetails.practiceName", "Practice name is required")
	}

	if len(p.Address.StreetAddress) < 5 {
		errs.add("practiceDetails.address.streetAddress", "Street address is required")
	}
	if len(p.Address.City) < 2 {
		errs.add("practiceDetails.address.city", "City is required")
	}
	if len(p.Address.State) < 2 {
		errs.add("practiceDetails.address.state", "State is required")
	}
	if len(p.Address.PostalCode) < 1 {
		errs.add("practiceDetails.address.postalCode", "Postal code is required")
	}
	if len(p.Address.Country) < 2 {
		errs.add("practiceDetails.address.country", "Country is required")
	}

	if p.ConsultationFee < 0 {
		errs.add("practiceDetails.consultationFee", "Consultation fee must be a positive number")
	}

	return errs
}

// ValidateVerificationDocuments 验证文件校验，最后一步的完整 schema。
// 注意分步推进用的不是它，而是 State.Next 里更弱的守卫。
func ValidateVerificationDocuments(v VerificationDocuments) Errors {
	var errs Errors

	if v.IdentityProof == nil {
		errs.add("verificationDocuments.identityProof", "Identity proof document is required")
	} else if !ValidDocumentMIMEs[normalizeMIME(v.IdentityProof.ContentType)] {
		errs.add("verificationDocuments.identityProof", "File must be PDF, JPG, or PNG")
	}

	if v.MedicalLicense == nil {
		errs.add("verificationDocuments.medicalLicense", "Medical license document is required")
	} else if !ValidDocumentMIMEs[normalizeMIME(v.MedicalLicense.ContentType)] {
		errs.add("verificationDocuments.medicalLicense", "File must be PDF, JPG, or PNG")
	}

	if !v.TermsAgreed {
		errs.add("verificationDocuments.termsAgreed", "You must agree to the terms and conditions")
	}

	return errs
}

// ValidateAll 提交端点使用的主 schema：四段全量校验。
func ValidateAll(d Data) Errors {
	var errs Errors
	errs = append(errs, ValidatePersonalInfo(d.PersonalInfo)...)
	errs = append(errs, ValidateProfessionalInfo(d.ProfessionalInfo)...)
	errs = append(errs, ValidatePracticeDetails(d.PracticeDetails)...)
	errs = append(errs, ValidateVerificationDocuments(d.VerificationDocuments)...)
	return errs
}

func normalizeMIME(ct string) string {
	return strings.ToLower(strings.TrimSpace(ct))
}
