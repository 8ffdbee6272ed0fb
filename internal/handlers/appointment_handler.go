package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/domain/account"
	"github.com/creser-psicologia/creser-api/internal/domain/booking"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	db           *gorm.DB
	book         *appointment.BookAppointment
	cancel       *appointment.CancelAppointment
	confirm      *appointment.ConfirmAppointment
	complete     *appointment.CompleteAppointment
	noShow       *appointment.MarkNoShow
	availability *appointment.GetAvailability
}

func NewAppointmentHandler(
	db *gorm.DB,
	book *appointment.BookAppointment,
	cancel *appointment.CancelAppointment,
	confirm *appointment.ConfirmAppointment,
	complete *appointment.CompleteAppointment,
	noShow *appointment.MarkNoShow,
	availability *appointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		book:         book,
		cancel:       cancel,
		confirm:      confirm,
		complete:     complete,
		noShow:       noShow,
		availability: availability,
	}
}

// --------- Requests ---------

type BookAppointmentRequest struct {
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Hour           string `json:"hour" binding:"required"`
	Modality       string `json:"modality" binding:"required"`
	ClientComments string `json:"client_comments"`

	// Admin only: book on behalf of another client.
	UserID uint `json:"user_id"`
}

type ConfirmAppointmentRequest struct {
	TherapistNotes string `json:"therapist_notes"`
	VirtualLink    string `json:"virtual_link"`
}

type CompleteAppointmentRequest struct {
	SessionNotes string `json:"session_notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// --------- Client + admin ---------

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), appointment.BookAppointmentInput{
		RequesterID:    c.MustGet(middleware.ContextUserID).(uint),
		RequesterRole:  account.Role(c.MustGet(middleware.ContextUserRole).(string)),
		TargetUserID:   req.UserID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Hour:           req.Hour,
		Modality:       req.Modality,
		ClientComments: req.ClientComments,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_book_appointment", "Error interno.")
		return
	}

	httpresp.Created(c, ap)
}

// Availability is public so the booking page works before login.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "El parámetro date es requerido.")
		return
	}

	hours, err := h.availability.Execute(c.Request.Context(), date)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_get_availability", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"date":            date,
		"available_hours": hours,
	})
}

func (h *AppointmentHandler) Mine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var aps []models.Appointment
	q := h.db.Preload("Service").Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		if _, err := booking.ParseStatus(status); err != nil {
			respondBusiness(c, err)
			return
		}
		q = q.Where("status = ?", status)
	}

	if err := q.Order("date DESC, hour DESC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error interno.")
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var ap models.Appointment
	if err := h.db.Preload("User").Preload("Service").First(&ap, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("appointment_not_found"))
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)
	if role != string(account.RoleAdmin) && ap.UserID != userID {
		respondBusiness(c, httperr.ErrBusiness("not_allowed"))
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), appointment.CancelAppointmentInput{
		AppointmentID: uint(id),
		ActorID:       c.MustGet(middleware.ContextUserID).(uint),
		ActorRole:     account.Role(c.MustGet(middleware.ContextUserRole).(string)),
		Reason:        req.Reason,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_appointment", "Error interno.")
		return
	}

	httpresp.OK(c, ap)
}

// --------- Admin ---------

func (h *AppointmentHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Appointment{}).Preload("User").Preload("Service")

	if date := c.Query("date"); date != "" {
		q = q.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		if _, err := booking.ParseStatus(status); err != nil {
			respondBusiness(c, err)
			return
		}
		q = q.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		q = q.Where("user_id = ?", userID)
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

	var aps []models.Appointment
	if err := q.Order("date DESC, hour DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"data":     aps,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Agenda returns the full day ordered by hour, for the admin day view.
func (h *AppointmentHandler) Agenda(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "El parámetro date es requerido.")
		return
	}

	var aps []models.Appointment
	if err := h.db.Preload("User").Preload("Service").
		Where("date = ?", date).
		Order("hour ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"date":         date,
		"appointments": aps,
		"total":        len(aps),
	})
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ConfirmAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	adminID := c.MustGet(middleware.ContextUserID).(uint)

	ap, err := h.confirm.Execute(c.Request.Context(), uint(id), adminID, req.TherapistNotes, req.VirtualLink)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_confirm_appointment", "Error interno.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req CompleteAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	adminID := c.MustGet(middleware.ContextUserID).(uint)

	ap, err := h.complete.Execute(c.Request.Context(), uint(id), adminID, req.SessionNotes)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_complete_appointment", "Error interno.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(uint)

	ap, err := h.noShow.Execute(c.Request.Context(), uint(id), adminID)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_mark_no_show", "Error interno.")
		return
	}

	httpresp.OK(c, ap)
}

// Stats aggregates appointment counts by status and month plus attendance
// rates, optionally scoped to a date range.
func (h *AppointmentHandler) Stats(c *gin.Context) {
	scoped := func() *gorm.DB {
		q := h.db.Model(&models.Appointment{})
		if from := c.Query("from"); from != "" {
			q = q.Where("date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			q = q.Where("date <= ?", to)
		}
		return q
	}

	type row struct {
		Key   string
		Count int64
	}

	var statusRows []row
	if err := scoped().Select("status as key, COUNT(*) as count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Error interno.")
		return
	}

	byStatus := make(map[string]int64, len(statusRows))
	var total int64
	for _, r := range statusRows {
		byStatus[r.Key] = r.Count
		total += r.Count
	}

	var monthRows []row
	scoped().Select("SUBSTRING(date, 1, 7) as key, COUNT(*) as count").
		Group("SUBSTRING(date, 1, 7)").
		Order("key ASC").
		Scan(&monthRows)

	byMonth := make(map[string]int64, len(monthRows))
	for _, r := range monthRows {
		byMonth[r.Key] = r.Count
	}

	rate := func(n int64) float64 {
		resolved := byStatus["completed"] + byStatus["cancelled"] + byStatus["no_show"]
		if resolved == 0 {
			return 0
		}
		return float64(n) / float64(resolved)
	}

	httpresp.OK(c, gin.H{
		"total":             total,
		"by_status":         byStatus,
		"by_month":          byMonth,
		"attendance_rate":   rate(byStatus["completed"]),
		"cancellation_rate": rate(byStatus["cancelled"]),
		"no_show_rate":      rate(byStatus["no_show"]),
	})
}
