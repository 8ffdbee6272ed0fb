package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	DurationMin int     `json:"duration_min"`
	Category    string  `json:"category" binding:"required"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	DurationMin *int     `json:"duration_min"`
	Category    *string  `json:"category"`
	Status      *string  `json:"status"`
}

// List is public and only shows active services.
func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.Where("status = ?", "active")

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.Order("price ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error interno.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var svc models.Service
	if err := h.db.Where("status = ?", "active").First(&svc, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("service_not_found"))
		return
	}

	httpresp.OK(c, svc)
}

// --------- Admin ---------

func (h *ServiceHandler) ListAll(c *gin.Context) {
	var services []models.Service
	if err := h.db.Order("code ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error interno.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	duration := req.DurationMin
	if duration <= 0 {
		duration = 60
	}

	svc := models.Service{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: duration,
		Category:    req.Category,
		Status:      "active",
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Conflict(c, "service_code_taken", "Ya existe un servicio con ese código.")
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("service_not_found"))
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, "invalid_price", "El precio debe ser mayor a cero.")
			return
		}
		svc.Price = *req.Price
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Status != nil {
		if *req.Status != "active" && *req.Status != "inactive" {
			httperr.BadRequest(c, "invalid_status", "Estado inválido.")
			return
		}
		svc.Status = *req.Status
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Error interno.")
		return
	}

	httpresp.OK(c, svc)
}

// Delete deactivates instead of removing: credits and appointments keep
// their foreign keys.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("service_not_found"))
		return
	}

	if err := h.db.Model(&svc).Update("status", "inactive").Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{"message": "Servicio desactivado."})
}
