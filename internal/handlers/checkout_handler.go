package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/creser-psicologia/creser-api/internal/domain/billing"
	domain "github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/models"
	paymentuc "github.com/creser-psicologia/creser-api/internal/usecase/payment"
)

// checkoutGateway is the slice of the payment provider the handler needs.
// Satisfied by *payments.Gateway, including its nil (disabled) form.
type checkoutGateway interface {
	Enabled() bool
	CreatePreference(ctx context.Context, reference, concept string, amount float64) (string, error)
	PaymentStatus(ctx context.Context, paymentID int) (status string, externalReference string, err error)
}

// CheckoutHandler drives the online-checkout flow. The provider is optional:
// without an access token every endpoint answers online_payments_disabled.
type CheckoutHandler struct {
	repo    domain.Repository
	gateway checkoutGateway
	approve *paymentuc.ApprovePayment
}

func NewCheckoutHandler(
	repo domain.Repository,
	gateway checkoutGateway,
	approve *paymentuc.ApprovePayment,
) *CheckoutHandler {
	return &CheckoutHandler{
		repo:    repo,
		gateway: gateway,
		approve: approve,
	}
}

type CreateCheckoutRequest struct {
	PayerName     string  `json:"payer_name" binding:"required"`
	PayerEmail    string  `json:"payer_email" binding:"required,email"`
	PayerPhone    string  `json:"payer_phone"`
	PayerDocument string  `json:"payer_document"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Concept       string  `json:"concept"`
	PurchaseType  string  `json:"purchase_type" binding:"required"`
}

// CreateCheckout registers a pending payment and returns the provider URL
// the client is redirected to.
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	if !h.gateway.Enabled() {
		respondBusiness(c, httperr.ErrBusiness("online_payments_disabled"))
		return
	}

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	purchaseType, err := billing.ParsePurchaseType(req.PurchaseType)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	reference := "MP-" + uuid.New().String()

	concept := req.Concept
	if concept == "" {
		concept = fmt.Sprintf("Compra %s - CreSer Psicología", purchaseType)
	}

	// The provider preference comes first: if it fails, no pending payment
	// lands in the admin review queue.
	checkoutURL, err := h.gateway.CreatePreference(c.Request.Context(), reference, concept, req.Amount)
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("checkout preference failed")
		httperr.Internal(c, "failed_to_create_checkout", "No se pudo iniciar el pago en línea.")
		return
	}

	p := models.Payment{
		Reference:     reference,
		Amount:        req.Amount,
		Method:        string(billing.MethodMercadoPago),
		Status:        string(billing.StatusPending),
		Concept:       concept,
		PurchaseType:  string(purchaseType),
		PayerName:     req.PayerName,
		PayerEmail:    strings.ToLower(strings.TrimSpace(req.PayerEmail)),
		PayerPhone:    req.PayerPhone,
		PayerDocument: req.PayerDocument,
	}

	if err := h.repo.CreatePayment(c.Request.Context(), &p); err != nil {
		httperr.Internal(c, "failed_to_create_payment", "Error interno.")
		return
	}

	httpresp.Created(c, gin.H{
		"reference":    reference,
		"checkout_url": checkoutURL,
	})
}

// Webhook receives provider notifications. It always answers 200 for known
// shapes so the provider stops retrying; failures are logged, not surfaced.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	if !h.gateway.Enabled() {
		c.Status(http.StatusOK)
		return
	}

	if c.Query("type") != "payment" {
		c.Status(http.StatusOK)
		return
	}

	providerID, err := strconv.Atoi(c.Query("data.id"))
	if err != nil {
		c.Status(http.StatusOK)
		return
	}

	status, reference, err := h.gateway.PaymentStatus(c.Request.Context(), providerID)
	if err != nil {
		log.Error().Err(err).Int("provider_payment_id", providerID).Msg("webhook status lookup failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	p, err := h.repo.GetPaymentByReference(c.Request.Context(), reference)
	if err != nil {
		log.Warn().Str("reference", reference).Msg("webhook for unknown payment reference")
		c.Status(http.StatusOK)
		return
	}

	if externalID := strconv.Itoa(providerID); p.ExternalID != externalID {
		p.ExternalID = externalID
		if err := h.repo.UpdatePayment(c.Request.Context(), p); err != nil {
			log.Error().Err(err).Str("reference", reference).Msg("webhook external id update failed")
		}
	}

	if status != "approved" {
		log.Info().
			Str("reference", reference).
			Str("provider_status", status).
			Msg("webhook processed without approval")
		c.Status(http.StatusOK)
		return
	}

	// AdminID nil marks the approval as automatic.
	if _, err := h.approve.Execute(c.Request.Context(), paymentuc.ApprovePaymentInput{
		PaymentID:  p.ID,
		AdminNotes: "Aprobado automáticamente por pasarela de pagos.",
	}); err != nil {
		// payment_already_processed means a retry of a handled event.
		if code, ok := httperr.AsBusiness(err); ok && code == "payment_already_processed" {
			c.Status(http.StatusOK)
			return
		}
		log.Error().Err(err).Str("reference", reference).Msg("webhook approval failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}
