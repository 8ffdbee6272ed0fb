package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/cache"
	"github.com/creser-psicologia/creser-api/internal/domain/contact"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

// Public contact submissions are throttled per source IP.
const (
	contactRateLimit  = 5
	contactRateWindow = time.Hour
)

type ContactHandler struct {
	db       *gorm.DB
	throttle *cache.Cache
	tz       string
}

func NewContactHandler(db *gorm.DB, throttle *cache.Cache, tz string) *ContactHandler {
	return &ContactHandler{db: db, throttle: throttle, tz: tz}
}

// --------- Requests ---------

type CreateContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject" binding:"required"`
	Message     string `json:"message" binding:"required"`
	InquiryType string `json:"inquiry_type" binding:"required"`
}

type UpdateContactRequest struct {
	Status        *string `json:"status"`
	InternalNotes *string `json:"internal_notes"`
}

// --------- Public ---------

func (h *ContactHandler) Create(c *gin.Context) {
	if !h.throttle.AllowContact(c.Request.Context(), c.ClientIP(), contactRateLimit, contactRateWindow) {
		httperr.Write(c, 429, "too_many_requests", "Demasiados mensajes. Intenta más tarde.")
		return
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	msg := models.ContactMessage{
		Name:        req.Name,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		InquiryType: req.InquiryType,
		Status:      string(contact.StatusPending),
		SourceIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}

	if err := h.db.Create(&msg).Error; err != nil {
		httperr.Internal(c, "failed_to_create_contact", "Error interno.")
		return
	}

	httpresp.Created(c, gin.H{
		"id":      msg.ID,
		"message": "Mensaje recibido. Te responderemos pronto.",
	})
}

// --------- Admin ---------

func (h *ContactHandler) List(c *gin.Context) {
	q := h.db.Model(&models.ContactMessage{})

	if status := c.Query("status"); status != "" {
		if _, err := contact.ParseStatus(status); err != nil {
			respondBusiness(c, err)
			return
		}
		q = q.Where("status = ?", status)
	}
	if inquiryType := c.Query("inquiry_type"); inquiryType != "" {
		q = q.Where("inquiry_type = ?", inquiryType)
	}
	if unread := c.Query("unread"); unread == "true" {
		q = q.Where("read = ?", false)
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

	var msgs []models.ContactMessage
	if err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&msgs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_contacts", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"data":     msgs,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Get marks the message as read on first open.
func (h *ContactHandler) Get(c *gin.Context) {
	msg, ok := h.find(c)
	if !ok {
		return
	}

	if !msg.Read {
		msg.Read = true
		h.db.Model(msg).Update("read", true)
	}

	httpresp.OK(c, msg)
}

func (h *ContactHandler) Update(c *gin.Context) {
	msg, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Status != nil {
		status, err := contact.ParseStatus(*req.Status)
		if err != nil {
			respondBusiness(c, err)
			return
		}
		msg.Status = string(status)
	}
	if req.InternalNotes != nil {
		msg.InternalNotes = *req.InternalNotes
	}

	if err := h.db.Save(msg).Error; err != nil {
		httperr.Internal(c, "failed_to_update_contact", "Error interno.")
		return
	}

	httpresp.OK(c, msg)
}

func (h *ContactHandler) MarkAnswered(c *gin.Context) {
	msg, ok := h.find(c)
	if !ok {
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(uint)
	now := timezone.NowIn(h.tz)

	msg.Status = string(contact.StatusAnswered)
	msg.Read = true
	msg.AnsweredBy = &adminID
	msg.AnsweredAt = &now

	if err := h.db.Save(msg).Error; err != nil {
		httperr.Internal(c, "failed_to_update_contact", "Error interno.")
		return
	}

	httpresp.OK(c, msg)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	msg, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.Delete(msg).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_contact", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{"message": "Mensaje eliminado."})
}

func (h *ContactHandler) Stats(c *gin.Context) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := h.db.Model(&models.ContactMessage{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Error interno.")
		return
	}

	byStatus := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		byStatus[r.Status] = r.Count
		total += r.Count
	}

	var unread int64
	h.db.Model(&models.ContactMessage{}).Where("read = ?", false).Count(&unread)

	httpresp.OK(c, gin.H{
		"total":     total,
		"by_status": byStatus,
		"unread":    unread,
	})
}

func (h *ContactHandler) find(c *gin.Context) (*models.ContactMessage, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var msg models.ContactMessage
	if err := h.db.First(&msg, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("contact_not_found"))
		return nil, false
	}

	return &msg, true
}
