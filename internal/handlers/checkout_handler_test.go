package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/domain/billing"
	"github.com/creser-psicologia/creser-api/internal/domain/booking/bookingtest"
	"github.com/creser-psicologia/creser-api/internal/models"
	paymentuc "github.com/creser-psicologia/creser-api/internal/usecase/payment"
)

const testTZ = "America/Bogota"

type stubGateway struct {
	failPreference bool
	status         string
	reference      string
}

func (g *stubGateway) Enabled() bool { return true }

func (g *stubGateway) CreatePreference(_ context.Context, reference, _ string, _ float64) (string, error) {
	if g.failPreference {
		return "", errors.New("provider unavailable")
	}
	return "https://checkout.test/" + reference, nil
}

func (g *stubGateway) PaymentStatus(_ context.Context, _ int) (string, string, error) {
	return g.status, g.reference, nil
}

func checkoutContext(t *testing.T, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

const checkoutBody = `{
	"payer_name": "Ana Torres",
	"payer_email": "ana@example.com",
	"amount": 260000,
	"purchase_type": "paquete"
}`

func TestCreateCheckoutProviderFailureLeavesNoPayment(t *testing.T) {
	repo := bookingtest.NewFakeRepo()
	h := NewCheckoutHandler(repo, &stubGateway{failPreference: true}, nil)

	c, w := checkoutContext(t, "/api/payments/checkout", checkoutBody)
	h.CreateCheckout(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, repo.Payments)
}

func TestCreateCheckoutCreatesPendingPayment(t *testing.T) {
	repo := bookingtest.NewFakeRepo()
	h := NewCheckoutHandler(repo, &stubGateway{}, nil)

	c, w := checkoutContext(t, "/api/payments/checkout", checkoutBody)
	h.CreateCheckout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "checkout_url")

	require.Len(t, repo.Payments, 1)
	for _, p := range repo.Payments {
		assert.Equal(t, string(billing.StatusPending), p.Status)
		assert.Equal(t, string(billing.MethodMercadoPago), p.Method)
		assert.True(t, strings.HasPrefix(p.Reference, "MP-"))
	}
}

func TestWebhookApprovesPaymentOnce(t *testing.T) {
	repo := bookingtest.NewFakeRepo()

	svc := &models.Service{Code: "PSI-IND", Name: "Psicoterapia individual", Price: 70000, Status: "active"}
	svc.ID = repo.NextID()
	repo.Services[svc.ID] = svc

	p := &models.Payment{
		Reference:    "MP-abc",
		Amount:       260000,
		Status:       string(billing.StatusPending),
		PurchaseType: string(billing.PurchasePackage),
		PayerEmail:   "ana@example.com",
		PayerName:    "Ana Torres",
	}
	_ = repo.CreatePayment(context.Background(), p)

	gw := &stubGateway{status: "approved", reference: "MP-abc"}
	approve := paymentuc.NewApprovePayment(repo, nil, testTZ)
	h := NewCheckoutHandler(repo, gw, approve)

	c, w := checkoutContext(t, "/api/payments/webhook/mercadopago?type=payment&data.id=555", "")
	h.Webhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(billing.StatusApproved), p.Status)
	assert.Equal(t, "555", p.ExternalID)
	assert.Nil(t, p.ApprovedBy)
	assert.NotEmpty(t, repo.Credits)

	issued := len(repo.Credits)

	// Provider retries of a handled event are acknowledged without
	// issuing anything twice.
	c, w = checkoutContext(t, "/api/payments/webhook/mercadopago?type=payment&data.id=555", "")
	h.Webhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.Credits, issued)
}

func TestWebhookIgnoresNonApproved(t *testing.T) {
	repo := bookingtest.NewFakeRepo()

	p := &models.Payment{
		Reference:    "MP-xyz",
		Amount:       260000,
		Status:       string(billing.StatusPending),
		PurchaseType: string(billing.PurchasePackage),
	}
	_ = repo.CreatePayment(context.Background(), p)

	gw := &stubGateway{status: "rejected", reference: "MP-xyz"}
	h := NewCheckoutHandler(repo, gw, nil)

	c, w := checkoutContext(t, "/api/payments/webhook/mercadopago?type=payment&data.id=777", "")
	h.Webhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(billing.StatusPending), p.Status)
	assert.Equal(t, "777", p.ExternalID)
	assert.Empty(t, repo.Credits)
}
