package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

type CreditHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	tz    string
}

func NewCreditHandler(db *gorm.DB, audit *audit.Dispatcher, tz string) *CreditHandler {
	return &CreditHandler{db: db, audit: audit, tz: tz}
}

type GrantCreditRequest struct {
	UserID    uint `json:"user_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`

	// Optional validity override, in days. Defaults to one year.
	ValidityDays int `json:"validity_days"`
}

func (h *CreditHandler) Mine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.listFor(c, userID)
}

func (h *CreditHandler) ByUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}
	h.listFor(c, uint(id))
}

// Expiry is applied lazily: stale rows are flipped on read rather than by a
// background job.
func (h *CreditHandler) listFor(c *gin.Context, userID uint) {
	var credits []models.Credit
	if err := h.db.Preload("Service").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&credits).Error; err != nil {
		httperr.Internal(c, "failed_to_list_credits", "Error interno.")
		return
	}

	today := timezone.NowIn(h.tz)
	for i := range credits {
		cr := &credits[i]
		if booking.CreditStatus(cr.Status) == booking.CreditActive &&
			booking.Expired(cr.ExpiresAt, today) {
			cr.Status = string(booking.CreditExpired)
			h.db.Model(cr).Update("status", cr.Status)
		}
	}

	httpresp.List(c, credits)
}

// Grant issues a manual credit without a backing payment, for promotions or
// corrections.
func (h *CreditHandler) Grant(c *gin.Context) {
	var req GrantCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("user_not_found"))
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, req.ServiceID).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("service_not_found"))
		return
	}

	days := req.ValidityDays
	if days <= 0 {
		days = 365
	}
	expiry := timezone.NowIn(h.tz).AddDate(0, 0, days)

	credit := models.Credit{
		UserID:       req.UserID,
		ServiceID:    svc.ID,
		InitialQty:   req.Quantity,
		RemainingQty: req.Quantity,
		UnitPrice:    svc.Price,
		ExpiresAt:    &expiry,
		Status:       string(booking.CreditActive),
	}

	if err := h.db.Create(&credit).Error; err != nil {
		httperr.Internal(c, "failed_to_create_credit", "Error interno.")
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "credit_granted",
		Entity:   "credit",
		EntityID: &credit.ID,
		Metadata: map[string]any{"user_id": req.UserID, "quantity": req.Quantity},
	})

	httpresp.Created(c, credit)
}
