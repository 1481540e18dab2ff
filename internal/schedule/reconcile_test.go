package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MediBook/internal/model"
	"MediBook/pkg/logger"
	"MediBook/pkg/objstore"
)

type fakeLister struct {
	rows []model.ProfileDocuments
	err  error
}

func (f *fakeLister) ListDocumentURLs(ctx context.Context) ([]model.ProfileDocuments, error) {
	return f.rows, f.err
}

func newTestReconciler(store *objstore.MockStore, lister *fakeLister) *Reconciler {
	return &Reconciler{
		logger:   logger.Logger,
		store:    store,
		profiles: lister,
		minAge:   time.Hour,
	}
}

func putObject(store *objstore.MockStore, path string, age time.Duration) string {
	store.Objects[path] = []byte("x")
	store.Timestamps[path] = time.Now().Add(-age)
	return store.PublicURL(path)
}

func TestReconcileRemovesOldOrphans(t *testing.T) {
	store := objstore.NewMockStore()
	referencedURL := putObject(store, "identity_proof/1-a.pdf", 3*time.Hour)
	putObject(store, "identity_proof/2-b.pdf", 3*time.Hour)
	putObject(store, "additional/3-c.pdf", 3*time.Hour)

	lister := &fakeLister{rows: []model.ProfileDocuments{
		{IdentityProof: referencedURL, MedicalLicense: "https://elsewhere.test/x.pdf"},
	}}
	r := newTestReconciler(store, lister)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, store.Objects, "identity_proof/1-a.pdf")
	assert.NotContains(t, store.Objects, "identity_proof/2-b.pdf")
	assert.NotContains(t, store.Objects, "additional/3-c.pdf")
}

func TestReconcileKeepsYoungObjects(t *testing.T) {
	store := objstore.NewMockStore()
	putObject(store, "medical_license/1-a.pdf", 10*time.Minute)

	r := newTestReconciler(store, &fakeLister{})

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, store.Objects, "medical_license/1-a.pdf")
	assert.Empty(t, store.RemoveCalls)
}

func TestReconcileKeepsAdditionalDocumentReferences(t *testing.T) {
	store := objstore.NewMockStore()
	kept := putObject(store, "additional/1-a.pdf", 3*time.Hour)
	putObject(store, "additional/2-b.pdf", 3*time.Hour)

	lister := &fakeLister{rows: []model.ProfileDocuments{
		{AdditionalDocuments: `["` + kept + `"]`},
	}}
	r := newTestReconciler(store, lister)

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, store.Objects, "additional/1-a.pdf")
	assert.NotContains(t, store.Objects, "additional/2-b.pdf")
}

func TestReconcileAbortsWhenReferenceQueryFails(t *testing.T) {
	store := objstore.NewMockStore()
	putObject(store, "identity_proof/1-a.pdf", 3*time.Hour)

	lister := &fakeLister{err: context.DeadlineExceeded}
	r := newTestReconciler(store, lister)

	require.Error(t, r.Run(context.Background()))

	// 引用集合拿不到时绝不删除任何对象
	assert.Contains(t, store.Objects, "identity_proof/1-a.pdf")
	assert.Empty(t, store.RemoveCalls)
}
