package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/domain/account"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

type AdminHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	tz    string
}

func NewAdminHandler(db *gorm.DB, audit *audit.Dispatcher, tz string) *AdminHandler {
	return &AdminHandler{db: db, audit: audit, tz: tz}
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Dashboard aggregates the counters the admin home screen shows.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	today := timezone.NowIn(h.tz).Format("2006-01-02")

	var clients int64
	h.db.Model(&models.User{}).Where("role = ?", string(account.RoleClient)).Count(&clients)

	var appointmentsToday int64
	h.db.Model(&models.Appointment{}).
		Where("date = ? AND status IN ?", today, []string{"scheduled", "confirmed"}).
		Count(&appointmentsToday)

	var pendingPayments int64
	h.db.Model(&models.Payment{}).Where("status = ?", "pending").Count(&pendingPayments)

	var pendingContacts int64
	h.db.Model(&models.ContactMessage{}).Where("status = ?", "pending").Count(&pendingContacts)

	var activeCredits int64
	h.db.Model(&models.Credit{}).
		Where("status = ? AND remaining_qty > 0", "active").
		Count(&activeCredits)

	httpresp.OK(c, gin.H{
		"clients":            clients,
		"appointments_today": appointmentsToday,
		"pending_payments":   pendingPayments,
		"pending_contacts":   pendingContacts,
		"active_credits":     activeCredits,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	q := h.db.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR document LIKE ?", term, term, term)
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

	var users []models.User
	if err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"data":     users,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("user_not_found"))
		return
	}

	httpresp.OK(c, user)
}

// UpdateUserStatus suspends or reactivates an account. Accounts are never
// hard-deleted: payments and history keep pointing at them.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	status, err := account.ParseStatus(req.Status)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("user_not_found"))
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(uint)
	if user.ID == adminID {
		respondBusiness(c, httperr.ErrBusiness("not_allowed"))
		return
	}

	user.Status = string(status)
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Error interno.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "user_status_updated",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"status": user.Status},
	})

	httpresp.OK(c, user)
}
