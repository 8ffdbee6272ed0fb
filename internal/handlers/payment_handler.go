package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/storage"
	"github.com/creser-psicologia/creser-api/internal/usecase/payment"
)

type PaymentHandler struct {
	db      *gorm.DB
	submit  *payment.SubmitPayment
	approve *payment.ApprovePayment
	reject  *payment.RejectPayment
}

func NewPaymentHandler(
	db *gorm.DB,
	submit *payment.SubmitPayment,
	approve *payment.ApprovePayment,
	reject *payment.RejectPayment,
) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		submit:  submit,
		approve: approve,
		reject:  reject,
	}
}

// --------- Requests ---------

type ApprovePaymentRequest struct {
	AdminNotes string `json:"admin_notes"`
	ServiceID  *uint  `json:"service_id"`
}

type RejectPaymentRequest struct {
	AdminNotes string `json:"admin_notes" binding:"required"`
}

// --------- Public ---------

// Submit receives a multipart form with the payer data and the proof file.
// No session required: payers often buy before registering.
func (h *PaymentHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(storage.MaxProofSize + 4096); err != nil {
		respondBusiness(c, httperr.ErrBusiness("proof_too_large"))
		return
	}

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		httperr.BadRequest(c, "invalid_amount", "Monto inválido.")
		return
	}

	payerEmail := strings.ToLower(strings.TrimSpace(c.PostForm("payer_email")))
	payerName := strings.TrimSpace(c.PostForm("payer_name"))
	reference := strings.TrimSpace(c.PostForm("reference"))

	if payerName == "" || payerEmail == "" || reference == "" {
		httperr.BadRequest(c, "missing_fields", "Nombre, email y referencia son requeridos.")
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		respondBusiness(c, httperr.ErrBusiness("empty_proof"))
		return
	}
	if fileHeader.Size > storage.MaxProofSize {
		respondBusiness(c, httperr.ErrBusiness("proof_too_large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_proof", "Error interno.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxProofSize+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_proof", "Error interno.")
		return
	}

	p, err := h.submit.Execute(c.Request.Context(), payment.SubmitPaymentInput{
		PayerName:        payerName,
		PayerEmail:       payerEmail,
		PayerPhone:       strings.TrimSpace(c.PostForm("payer_phone")),
		PayerDocument:    strings.TrimSpace(c.PostForm("payer_document")),
		Amount:           amount,
		Concept:          strings.TrimSpace(c.PostForm("concept")),
		PurchaseType:     c.PostForm("purchase_type"),
		Method:           c.PostForm("method"),
		Reference:        reference,
		ProofContentType: fileHeader.Header.Get("Content-Type"),
		ProofData:        data,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_submit_payment", "Error interno.")
		return
	}

	httpresp.Created(c, gin.H{
		"payment": p,
		"message": "Comprobante recibido. Te notificaremos al aprobarlo.",
	})
}

// --------- Client ---------

func (h *PaymentHandler) Mine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var payments []models.Payment
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_payments", "Error interno.")
		return
	}

	httpresp.List(c, payments)
}

// --------- Admin ---------

func (h *PaymentHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Payment{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if email := c.Query("payer_email"); email != "" {
		q = q.Where("payer_email = ?", strings.ToLower(email))
	}

	var total int64
	q.Count(&total)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var payments []models.Payment
	if err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&payments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_payments", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"data":     payments,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *PaymentHandler) ListPending(c *gin.Context) {
	var payments []models.Payment
	if err := h.db.Where("status = ?", "pending").
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_payments", "Error interno.")
		return
	}

	httpresp.List(c, payments)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var p models.Payment
	if err := h.db.First(&p, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("payment_not_found"))
		return
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ApprovePaymentRequest
	_ = c.ShouldBindJSON(&req)

	adminID := c.MustGet(middleware.ContextUserID).(uint)

	p, err := h.approve.Execute(c.Request.Context(), payment.ApprovePaymentInput{
		PaymentID:  uint(id),
		AdminID:    &adminID,
		AdminNotes: req.AdminNotes,
		ServiceID:  req.ServiceID,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_approve_payment", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"payment": p,
		"message": "Pago aprobado y créditos emitidos.",
	})
}

func (h *PaymentHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "La nota de rechazo es requerida.")
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(uint)

	p, err := h.reject.Execute(c.Request.Context(), uint(id), adminID, req.AdminNotes)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_reject_payment", "Error interno.")
		return
	}

	httpresp.OK(c, p)
}
