package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MediBook/internal/form"
	"MediBook/internal/model"
	"MediBook/pkg/errors"
	"MediBook/pkg/geocode"
	"MediBook/pkg/objstore"
)

type fakeProfileStore struct {
	pingErr   error
	upsertErr error
	qualErr   error
	langErr   error

	upserts []*model.Profile
	quals   [][]model.Qualification
	langs   [][]model.Language
}

func (f *fakeProfileStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeProfileStore) Upsert(ctx context.Context, p *model.Profile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, p)
	return nil
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	if len(f.upserts) == 0 {
		return nil, nil
	}
	p := *f.upserts[len(f.upserts)-1]
	p.ID = 42
	return &p, nil
}

func (f *fakeProfileStore) UpsertQualifications(ctx context.Context, rows []model.Qualification) error {
	if f.qualErr != nil {
		return f.qualErr
	}
	f.quals = append(f.quals, rows)
	return nil
}

func (f *fakeProfileStore) UpsertLanguages(ctx context.Context, rows []model.Language) error {
	if f.langErr != nil {
		return f.langErr
	}
	f.langs = append(f.langs, rows)
	return nil
}

type fakeUserStore struct {
	user     *model.User
	promoted []int64
}

func (f *fakeUserStore) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUserStore) PromoteToDoctor(ctx context.Context, publicID int64) error {
	f.promoted = append(f.promoted, publicID)
	return nil
}

func newTestProfileService(store *objstore.MockStore, fps *fakeProfileStore, fus *fakeUserStore) *ProfileService {
	gc := geocode.NewMockClient()
	gc.ForwardResult = &geocode.Result{Lat: 36.8, Lng: 10.18}
	return &ProfileService{store: store, geo: gc, profiles: fps, users: fus}
}

func validSubmission() Submission {
	return Submission{
		Data: form.Data{
			PersonalInfo: form.PersonalInfo{
				Phone:       "21612345",
				Gender:      "female",
				DateOfBirth: "1985-03-14",
				Bio:         "General practitioner.",
			},
			ProfessionalInfo: form.ProfessionalInfo{
				Specialization: "Cardiology",
				LicenseNumber:  "TN-99812",
				Experience:     8,
				Qualifications: []form.Qualification{
					{Degree: "MD", Institution: "University of Tunis", Year: 2009},
				},
				Languages: []string{"French", "Arabic"},
			},
			PracticeDetails: form.PracticeDetails{
				PracticeName: "Clinique El Manar",
				Address: form.Address{
					StreetAddress: "12 Avenue Habib Bourguiba",
					City:          "Tunis",
					State:         "Tunis",
					PostalCode:    "1001",
					Country:       "Tunisia",
					Location:      &form.Location{Lat: 36.8, Lng: 10.18},
				},
				ConsultationFee: 60,
			},
			VerificationDocuments: form.VerificationDocuments{TermsAgreed: true},
		},
		IdentityProof:  &Document{Filename: "id.pdf", ContentType: "application/pdf", Data: []byte("id-bytes")},
		MedicalLicense: &Document{Filename: "license.pdf", ContentType: "application/pdf", Data: []byte("license-bytes")},
	}
}

func TestSubmitHappyPath(t *testing.T) {
	store := objstore.NewMockStore()
	fps := &fakeProfileStore{}
	fus := &fakeUserStore{user: &model.User{PublicID: 7, FullName: "Dr. Amira Ben Salah"}}
	svc := newTestProfileService(store, fps, fus)

	result, fieldErrs, err := svc.Submit(context.Background(), 7, validSubmission())

	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Files.IdentityProof)
	assert.NotEmpty(t, result.Files.MedicalLicense)
	assert.Empty(t, result.Files.AdditionalDocuments)

	require.Len(t, fps.upserts, 1)
	record := fps.upserts[0]
	assert.Equal(t, int64(7), record.UserID)
	assert.Equal(t, result.Files.IdentityProof, record.IdentityProof)
	assert.Equal(t, result.Files.MedicalLicense, record.MedicalLicense)
	assert.Equal(t, "Dr. Amira Ben Salah", record.FullName)
	assert.Equal(t, 36.8, record.Lat)

	require.Len(t, fps.quals, 1)
	assert.Equal(t, "MD", fps.quals[0][0].Degree)
	assert.Equal(t, int64(42), fps.quals[0][0].ProfileID)
	require.Len(t, fps.langs, 1)
	assert.Len(t, fps.langs[0], 2)

	assert.Equal(t, []int64{7}, fus.promoted)
}

func TestSubmitRejectsBadMIMEBeforeAnyUpload(t *testing.T) {
	store := objstore.NewMockStore()
	svc := newTestProfileService(store, &fakeProfileStore{}, &fakeUserStore{})

	sub := validSubmission()
	sub.IdentityProof.ContentType = "application/zip"

	result, fieldErrs, err := svc.Submit(context.Background(), 7, sub)

	require.ErrorIs(t, err, errors.ValidationFailed)
	assert.Nil(t, result)
	assert.True(t, fieldErrs.HasPath("verificationDocuments.identityProof"))
	assert.Empty(t, store.UploadCalls)
}

func TestSubmitRejectsMissingRequiredDocument(t *testing.T) {
	store := objstore.NewMockStore()
	svc := newTestProfileService(store, &fakeProfileStore{}, &fakeUserStore{})

	sub := validSubmission()
	sub.MedicalLicense = nil

	_, fieldErrs, err := svc.Submit(context.Background(), 7, sub)

	require.ErrorIs(t, err, errors.ValidationFailed)
	assert.True(t, fieldErrs.HasPath("verificationDocuments.medicalLicense"))
	assert.Empty(t, store.UploadCalls)
}

func TestSubmitRequiredUploadFailureIsFatal(t *testing.T) {
	store := objstore.NewMockStore()
	store.FailPaths["identity_proof/"] = fmt.Errorf("storage down")
	fps := &fakeProfileStore{}
	svc := newTestProfileService(store, fps, &fakeUserStore{})

	result, _, err := svc.Submit(context.Background(), 7, validSubmission())

	require.ErrorIs(t, err, errors.UploadFailed)
	assert.Nil(t, result)
	assert.Empty(t, fps.upserts)
}

func TestSubmitAdditionalDocumentFailureIsSkipped(t *testing.T) {
	store := objstore.NewMockStore()
	store.FailFunc = func(path string, data []byte) error {
		if strings.HasPrefix(path, "additional/") && bytes.Equal(data, []byte("doc-two")) {
			return fmt.Errorf("storage hiccup")
		}
		return nil
	}
	fps := &fakeProfileStore{}
	svc := newTestProfileService(store, fps, &fakeUserStore{})

	sub := validSubmission()
	sub.AdditionalDocuments = []Document{
		{Filename: "cert1.pdf", ContentType: "application/pdf", Data: []byte("doc-one")},
		{Filename: "cert2.pdf", ContentType: "application/pdf", Data: []byte("doc-two")},
	}

	result, fieldErrs, err := svc.Submit(context.Background(), 7, sub)

	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotNil(t, result)
	assert.Len(t, result.Files.AdditionalDocuments, 1)

	require.Len(t, fps.upserts, 1)
	var stored []string
	require.NoError(t, json.Unmarshal([]byte(fps.upserts[0].AdditionalDocuments), &stored))
	assert.Equal(t, result.Files.AdditionalDocuments, stored)
}

func TestSubmitChildWriteFailureStillSucceeds(t *testing.T) {
	store := objstore.NewMockStore()
	fps := &fakeProfileStore{qualErr: fmt.Errorf("constraint violation")}
	svc := newTestProfileService(store, fps, &fakeUserStore{})

	result, _, err := svc.Submit(context.Background(), 7, validSubmission())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, fps.quals)
	// 语言写入不受资质失败影响
	assert.Len(t, fps.langs, 1)
}

func TestSubmitDatabaseFailureKeepsUploadedObjects(t *testing.T) {
	store := objstore.NewMockStore()
	fps := &fakeProfileStore{upsertErr: fmt.Errorf("connection reset")}
	svc := newTestProfileService(store, fps, &fakeUserStore{})

	result, _, err := svc.Submit(context.Background(), 7, validSubmission())

	require.ErrorIs(t, err, errors.DatabaseError)
	assert.Nil(t, result)
	// 已上传对象不回滚
	assert.Len(t, store.Objects, 2)
	assert.Empty(t, store.RemoveCalls)
}

func TestSubmitTableProbeFailure(t *testing.T) {
	store := objstore.NewMockStore()
	fps := &fakeProfileStore{pingErr: fmt.Errorf("relation does not exist")}
	svc := newTestProfileService(store, fps, &fakeUserStore{})

	_, _, err := svc.Submit(context.Background(), 7, validSubmission())

	require.ErrorIs(t, err, errors.DatabaseError)
	assert.Empty(t, fps.upserts)
}

func TestSubmitTwiceUpsertsSameKeyWithoutObjectDeletion(t *testing.T) {
	store := objstore.NewMockStore()
	fps := &fakeProfileStore{}
	svc := newTestProfileService(store, fps, &fakeUserStore{})

	_, _, err := svc.Submit(context.Background(), 7, validSubmission())
	require.NoError(t, err)
	_, _, err = svc.Submit(context.Background(), 7, validSubmission())
	require.NoError(t, err)

	require.Len(t, fps.upserts, 2)
	assert.Equal(t, fps.upserts[0].UserID, fps.upserts[1].UserID)
	// 两次提交四个对象，旧对象不删除
	assert.Len(t, store.Objects, 4)
	assert.Empty(t, store.RemoveCalls)
}

func TestSubmitGeocodeFallbackToDefaultLocation(t *testing.T) {
	store := objstore.NewMockStore()
	fps := &fakeProfileStore{}
	svc := newTestProfileService(store, fps, &fakeUserStore{})
	svc.geo.(*geocode.MockClient).ForwardErr = errors.GeocodeNoResult

	sub := validSubmission()
	sub.Data.PracticeDetails.Address.Location = nil

	_, _, err := svc.Submit(context.Background(), 7, sub)

	require.NoError(t, err)
	require.Len(t, fps.upserts, 1)
	assert.Equal(t, 36.8065, fps.upserts[0].Lat)
	assert.Equal(t, 10.1815, fps.upserts[0].Long)
}
