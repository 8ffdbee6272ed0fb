package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/cache"
	"github.com/creser-psicologia/creser-api/internal/config"
	"github.com/creser-psicologia/creser-api/internal/domain/account"
	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	sessions *cache.Cache
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, sessions *cache.Cache) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, sessions: sessions}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Document string `json:"document" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates client accounts only; admins are provisioned out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "El dominio del email no parece ser válido.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		respondBusiness(c, httperr.ErrBusiness("email_already_registered"))
		return
	}

	h.db.Model(&models.User{}).Where("document = ?", req.Document).Count(&count)
	if count > 0 {
		respondBusiness(c, httperr.ErrBusiness("document_already_registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Error interno.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		Document:     req.Document,
		PasswordHash: string(hashed),
		Role:         string(account.RoleClient),
		Status:       string(account.StatusActive),
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Error interno.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Error interno.")
		return
	}

	httpresp.Created(c, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	}

	if user.Status != string(account.StatusActive) {
		httperr.Unauthorized(c, "user_inactive", "Usuario inactivo o suspendido.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

// Logout denylists the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.MustGet(middleware.ContextToken).(string)

	ttl := time.Duration(h.config.JWTExpiresHours) * time.Hour
	if err := h.sessions.RevokeToken(c.Request.Context(), token, ttl); err != nil {
		httperr.Internal(c, "failed_to_logout", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{"message": "Sesión cerrada correctamente."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("user_not_found"))
		return
	}

	httpresp.OK(c, gin.H{"user": userPayload(&user)})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(time.Duration(h.config.JWTExpiresHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"phone":    user.Phone,
		"document": user.Document,
		"role":     user.Role,
		"status":   user.Status,
	}
}
