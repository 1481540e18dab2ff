package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonalInfo() PersonalInfo {
	return PersonalInfo{
		Phone:       "21612345",
		Gender:      "female",
		DateOfBirth: "1985-03-14",
		Bio:         "General practitioner.",
	}
}

func validProfessionalInfo() ProfessionalInfo {
	return ProfessionalInfo{
		Specialization: "Cardiology",
		LicenseNumber:  "TN-99812",
		Experience:     8,
		Qualifications: []Qualification{
			{Degree: "MD", Institution: "University of Tunis", Year: 2009},
		},
		Languages: []string{"French", "Arabic"},
	}
}

func validPracticeDetails() PracticeDetails {
	return PracticeDetails{
		PracticeName: "Clinique El Manar",
		Address: Address{
			StreetAddress: "12 Avenue Habib Bourguiba",
			City:          "Tunis",
			State:         "Tunis",
			PostalCode:    "1001",
			Country:       "Tunisia",
		},
		ConsultationFee: 60,
	}
}

func validVerificationDocuments() VerificationDocuments {
	return VerificationDocuments{
		IdentityProof:  &FileRef{Name: "id.pdf", ContentType: "application/pdf", Size: 1024},
		MedicalLicense: &FileRef{Name: "license.png", ContentType: "image/png", Size: 2048},
		TermsAgreed:    true,
	}
}

func advanceToFinalStep(t *testing.T) *State {
	t.Helper()
	s := NewState()
	require.Empty(t, s.Next(Data{PersonalInfo: validPersonalInfo()}))
	require.Empty(t, s.Next(Data{ProfessionalInfo: validProfessionalInfo()}))
	require.Empty(t, s.Next(Data{PracticeDetails: validPracticeDetails()}))
	require.True(t, s.IsFinalStep())
	return s
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0, s.StepIndex)
	assert.Equal(t, PhaseFilling, s.Phase)
	assert.False(t, s.IsFinalStep())
	assert.Equal(t, "Personal Information", s.CurrentStep().Title)
}

func TestNextRejectsInvalidStepAndKeepsPosition(t *testing.T) {
	s := NewState()

	errs := s.Next(Data{PersonalInfo: PersonalInfo{
		Phone:       "12",
		Gender:      "female",
		DateOfBirth: "1985-03-14",
	}})

	require.False(t, errs.Empty())
	assert.True(t, errs.HasPath("personalInfo.phone"))
	assert.Equal(t, 0, s.StepIndex)
}

func TestNextMergesSectionAndAdvances(t *testing.T) {
	s := NewState()

	errs := s.Next(Data{PersonalInfo: validPersonalInfo()})

	require.Empty(t, errs)
	assert.Equal(t, 1, s.StepIndex)
	assert.Equal(t, "21612345", s.Data.PersonalInfo.Phone)
}

func TestNextValidatesOnlyCurrentSection(t *testing.T) {
	s := NewState()

	// 第 0 步推进时后面几步还是空的，不应该被校验
	errs := s.Next(Data{PersonalInfo: validPersonalInfo()})

	require.Empty(t, errs)
}

func TestBioBoundary(t *testing.T) {
	p := validPersonalInfo()

	p.Bio = strings.Repeat("a", 500)
	assert.Empty(t, ValidatePersonalInfo(p))

	p.Bio = strings.Repeat("a", 501)
	errs := ValidatePersonalInfo(p)
	assert.True(t, errs.HasPath("personalInfo.bio"))
}

func TestQualificationYearBoundary(t *testing.T) {
	p := validProfessionalInfo()

	p.Qualifications[0].Year = 1950
	assert.Empty(t, ValidateProfessionalInfo(p))

	p.Qualifications[0].Year = 1949
	errs := ValidateProfessionalInfo(p)
	assert.True(t, errs.HasPath("professionalInfo.qualifications.0.year"))
}

func TestBackNeverDiscardsData(t *testing.T) {
	s := NewState()
	require.Empty(t, s.Next(Data{PersonalInfo: validPersonalInfo()}))
	require.Empty(t, s.Next(Data{ProfessionalInfo: validProfessionalInfo()}))

	s.Back()

	assert.Equal(t, 1, s.StepIndex)
	assert.Equal(t, "Cardiology", s.Data.ProfessionalInfo.Specialization)
	assert.Equal(t, "21612345", s.Data.PersonalInfo.Phone)

	// 退到第 0 步后再退不会越界
	s.Back()
	s.Back()
	assert.Equal(t, 0, s.StepIndex)
}

func TestFinalStepWeakGuard(t *testing.T) {
	t.Run("missing medical license blocks", func(t *testing.T) {
		s := advanceToFinalStep(t)
		docs := validVerificationDocuments()
		docs.MedicalLicense = nil

		errs := s.Next(Data{VerificationDocuments: docs})

		require.False(t, errs.Empty())
		assert.Equal(t, PhaseFilling, s.Phase)
	})

	t.Run("terms not agreed blocks", func(t *testing.T) {
		s := advanceToFinalStep(t)
		docs := validVerificationDocuments()
		docs.TermsAgreed = false

		errs := s.Next(Data{VerificationDocuments: docs})

		require.False(t, errs.Empty())
		assert.Equal(t, PhaseFilling, s.Phase)
	})

	t.Run("files and terms are enough", func(t *testing.T) {
		s := advanceToFinalStep(t)
		// 守卫故意不看 MIME 类型，完整校验留给提交端点
		docs := validVerificationDocuments()
		docs.IdentityProof.ContentType = "application/zip"

		errs := s.Next(Data{VerificationDocuments: docs})

		require.Empty(t, errs)
		assert.Equal(t, PhaseSubmitting, s.Phase)
	})
}

func TestNextBlockedWhileSubmitting(t *testing.T) {
	s := advanceToFinalStep(t)
	require.Empty(t, s.Next(Data{VerificationDocuments: validVerificationDocuments()}))

	errs := s.Next(Data{VerificationDocuments: validVerificationDocuments()})

	require.False(t, errs.Empty())
	assert.Equal(t, PhaseSubmitting, s.Phase)
}

func TestSubmissionFailureKeepsDataAndAllowsRetry(t *testing.T) {
	s := advanceToFinalStep(t)
	require.Empty(t, s.Next(Data{VerificationDocuments: validVerificationDocuments()}))

	s.MarkSubmissionFailed("network error")

	assert.Equal(t, PhaseSubmissionFailed, s.Phase)
	assert.True(t, s.CanRetry())
	assert.Equal(t, len(Steps)-1, s.StepIndex)
	assert.Equal(t, "Cardiology", s.Data.ProfessionalInfo.Specialization)
	assert.Equal(t, "network error", s.LastError)

	// 失败后可以直接再提交
	errs := s.Next(Data{VerificationDocuments: validVerificationDocuments()})
	require.Empty(t, errs)
	assert.Equal(t, PhaseSubmitting, s.Phase)
	assert.Empty(t, s.LastError)
}

func TestBackFromFailureReturnsToFilling(t *testing.T) {
	s := advanceToFinalStep(t)
	require.Empty(t, s.Next(Data{VerificationDocuments: validVerificationDocuments()}))
	s.MarkSubmissionFailed("rejected")

	s.Back()

	assert.Equal(t, PhaseFilling, s.Phase)
	assert.Equal(t, len(Steps)-2, s.StepIndex)
}

func TestMarkSubmittedClearsData(t *testing.T) {
	s := advanceToFinalStep(t)
	require.Empty(t, s.Next(Data{VerificationDocuments: validVerificationDocuments()}))

	s.MarkSubmitted()

	assert.Equal(t, PhaseSubmitted, s.Phase)
	assert.Equal(t, Data{}, s.Data)
}

func TestDocumentMIMEAllowList(t *testing.T) {
	docs := validVerificationDocuments()
	docs.IdentityProof.ContentType = "application/zip"

	errs := ValidateVerificationDocuments(docs)

	assert.True(t, errs.HasPath("verificationDocuments.identityProof"))
	assert.False(t, errs.HasPath("verificationDocuments.medicalLicense"))

	docs.IdentityProof.ContentType = "Application/PDF"
	assert.Empty(t, ValidateVerificationDocuments(docs))
}

func TestValidateAllCollectsAcrossSections(t *testing.T) {
	d := Data{
		PersonalInfo:          validPersonalInfo(),
		ProfessionalInfo:      validProfessionalInfo(),
		PracticeDetails:       validPracticeDetails(),
		VerificationDocuments: validVerificationDocuments(),
	}
	assert.Empty(t, ValidateAll(d))

	d.PersonalInfo.Gender = "unknown"
	d.PracticeDetails.Address.StreetAddress = "1"
	errs := ValidateAll(d)
	assert.True(t, errs.HasPath("personalInfo.gender"))
	assert.True(t, errs.HasPath("practiceDetails.address.streetAddress"))
}
