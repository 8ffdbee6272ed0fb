package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/creser-psicologia/creser-api/internal/domain/account"
	"github.com/creser-psicologia/creser-api/internal/domain/billing"
	"github.com/creser-psicologia/creser-api/internal/domain/booking/bookingtest"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/storage"
)

// memStore keeps saved objects in memory.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	m.objects[key] = data
	return "mem://" + key, nil
}

func submitInput() SubmitPaymentInput {
	return SubmitPaymentInput{
		PayerName:        "Ana Torres",
		PayerEmail:       "ana@example.com",
		PayerPhone:       "3007654321",
		PayerDocument:    "52123456",
		Amount:           260000,
		Concept:          "Paquete 4 sesiones",
		PurchaseType:     "paquete",
		Reference:        "TRF-2030-001",
		ProofContentType: "application/pdf",
		ProofData:        []byte("%PDF-1.4 fake"),
	}
}

func TestSubmitCreatesPendingPayment(t *testing.T) {
	repo := bookingtest.NewFakeRepo()
	store := newMemStore()
	uc := NewSubmitPayment(repo, storage.NewProofStore(store), nil, clinicTZ)

	p, err := uc.Execute(context.Background(), submitInput())
	require.NoError(t, err)

	assert.Equal(t, string(billing.StatusPending), p.Status)
	assert.Equal(t, string(billing.MethodQR), p.Method)
	assert.NotEmpty(t, p.ProofPath)
	assert.Empty(t, p.ThumbnailPath)
	require.NotNil(t, p.PaidAt)
	assert.Len(t, store.objects, 1)
}

func TestSubmitProvisionsAccountWithTempPassword(t *testing.T) {
	repo := bookingtest.NewFakeRepo()
	uc := NewSubmitPayment(repo, storage.NewProofStore(newMemStore()), nil, clinicTZ)

	p, err := uc.Execute(context.Background(), submitInput())
	require.NoError(t, err)

	require.NotNil(t, p.UserID)
	user, err := repo.GetUserByID(context.Background(), *p.UserID)
	require.NoError(t, err)

	assert.Equal(t, string(account.RoleClient), user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte("CreSer52123456")))
}

func TestSubmitReusesExistingAccount(t *testing.T) {
	repo := bookingtest.NewFakeRepo()

	existing := &models.User{Email: "ana@example.com", Role: string(account.RoleClient)}
	_ = repo.CreateUser(context.Background(), existing)

	uc := NewSubmitPayment(repo, storage.NewProofStore(newMemStore()), nil, clinicTZ)

	p, err := uc.Execute(context.Background(), submitInput())
	require.NoError(t, err)

	require.NotNil(t, p.UserID)
	assert.Equal(t, existing.ID, *p.UserID)
	assert.Len(t, repo.Users, 1)
}

func TestSubmitRejectsBadProof(t *testing.T) {
	repo := bookingtest.NewFakeRepo()
	uc := NewSubmitPayment(repo, storage.NewProofStore(newMemStore()), nil, clinicTZ)

	in := submitInput()
	in.ProofContentType = "application/zip"
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_proof_type"))

	in = submitInput()
	in.ProofData = nil
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "empty_proof"))

	in = submitInput()
	in.ProofData = make([]byte, storage.MaxProofSize+1)
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "proof_too_large"))

	assert.Empty(t, repo.Payments)
}

func TestSubmitInvalidPurchaseType(t *testing.T) {
	repo := bookingtest.NewFakeRepo()
	uc := NewSubmitPayment(repo, storage.NewProofStore(newMemStore()), nil, clinicTZ)

	in := submitInput()
	in.PurchaseType = "bono"
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_purchase_type"))
}
