package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/audit"
	"github.com/creser-psicologia/creser-api/internal/cache"
	"github.com/creser-psicologia/creser-api/internal/config"
	"github.com/creser-psicologia/creser-api/internal/handlers"
	"github.com/creser-psicologia/creser-api/internal/infra/repository"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/payments"
	"github.com/creser-psicologia/creser-api/internal/storage"
	"github.com/creser-psicologia/creser-api/internal/usecase/appointment"
	paymentuc "github.com/creser-psicologia/creser-api/internal/usecase/payment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	sessions *cache.Cache,
	gateway *payments.Gateway,
) {
	tz := cfg.ClinicTimezone

	auditor := audit.NewDispatcher(audit.New(db))
	repo := repository.NewBookingGormRepository(db)

	var store storage.Store
	if cfg.S3Bucket != "" {
		store = storage.NewS3Store(cfg)
	} else {
		store = storage.NewLocalStore(cfg.UploadDir)
	}
	proofs := storage.NewProofStore(store)

	// Use cases
	bookUC := appointment.NewBookAppointment(repo, auditor, tz)
	cancelUC := appointment.NewCancelAppointment(repo, auditor, tz)
	confirmUC := appointment.NewConfirmAppointment(repo, auditor)
	completeUC := appointment.NewCompleteAppointment(repo, auditor, tz)
	noShowUC := appointment.NewMarkNoShow(repo, auditor)
	availabilityUC := appointment.NewGetAvailability(repo, tz)

	submitUC := paymentuc.NewSubmitPayment(repo, proofs, auditor, tz)
	approveUC := paymentuc.NewApprovePayment(repo, auditor, tz)
	rejectUC := paymentuc.NewRejectPayment(repo, auditor, tz)

	// Handlers
	authH := handlers.NewAuthHandler(db, cfg, sessions)
	appointmentH := handlers.NewAppointmentHandler(db, bookUC, cancelUC, confirmUC, completeUC, noShowUC, availabilityUC)
	creditH := handlers.NewCreditHandler(db, auditor, tz)
	paymentH := handlers.NewPaymentHandler(db, submitUC, approveUC, rejectUC)
	checkoutH := handlers.NewCheckoutHandler(repo, gateway, approveUC)
	serviceH := handlers.NewServiceHandler(db)
	newsH := handlers.NewNewsHandler(db, tz)
	contactH := handlers.NewContactHandler(db, sessions, tz)
	adminH := handlers.NewAdminHandler(db, auditor, tz)
	auditH := handlers.NewAuditLogsHandler(db)

	api := r.Group("/api")

	// ----- Public -----
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	api.GET("/services", serviceH.List)
	api.GET("/services/:id", serviceH.Get)

	api.GET("/appointments/availability", appointmentH.Availability)

	api.POST("/payments", paymentH.Submit)
	api.POST("/payments/checkout", checkoutH.CreateCheckout)
	api.POST("/payments/webhook/mercadopago", checkoutH.Webhook)

	api.GET("/news", newsH.List)
	api.GET("/news/featured", newsH.Featured)
	api.GET("/news/:slug", newsH.GetBySlug)

	api.POST("/contact", contactH.Create)

	// ----- Authenticated -----
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg, sessions))

	authed.POST("/auth/logout", authH.Logout)
	authed.GET("/auth/me", authH.Me)

	authed.POST("/appointments", appointmentH.Book)
	authed.GET("/appointments/mine", appointmentH.Mine)
	authed.GET("/appointments/:id", appointmentH.Get)
	authed.PUT("/appointments/:id/cancel", appointmentH.Cancel)

	authed.GET("/credits/mine", creditH.Mine)
	authed.GET("/payments/mine", paymentH.Mine)

	// ----- Admin -----
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg, sessions), middleware.RequireAdmin())

	admin.GET("/dashboard", adminH.Dashboard)

	admin.GET("/users", adminH.ListUsers)
	admin.GET("/users/:id", adminH.GetUser)
	admin.PATCH("/users/:id/status", adminH.UpdateUserStatus)
	admin.GET("/users/:id/credits", creditH.ByUser)

	admin.GET("/appointments", appointmentH.List)
	admin.GET("/appointments/agenda", appointmentH.Agenda)
	admin.GET("/appointments/stats", appointmentH.Stats)
	admin.PUT("/appointments/:id/confirm", appointmentH.Confirm)
	admin.PUT("/appointments/:id/complete", appointmentH.Complete)
	admin.PUT("/appointments/:id/no-show", appointmentH.NoShow)

	admin.GET("/payments", paymentH.List)
	admin.GET("/payments/pending", paymentH.ListPending)
	admin.GET("/payments/:id", paymentH.Get)
	admin.PUT("/payments/:id/approve", paymentH.Approve)
	admin.PUT("/payments/:id/reject", paymentH.Reject)

	admin.POST("/credits", creditH.Grant)

	admin.GET("/services", serviceH.ListAll)
	admin.POST("/services", serviceH.Create)
	admin.PUT("/services/:id", serviceH.Update)
	admin.DELETE("/services/:id", serviceH.Delete)

	admin.GET("/news", newsH.ListAll)
	admin.GET("/news/stats", newsH.Stats)
	admin.POST("/news", newsH.Create)
	admin.PUT("/news/:id", newsH.Update)
	admin.POST("/news/:id/publish", newsH.Publish)
	admin.POST("/news/:id/archive", newsH.Archive)
	admin.DELETE("/news/:id", newsH.Delete)

	admin.GET("/contact", contactH.List)
	admin.GET("/contact/stats", contactH.Stats)
	admin.GET("/contact/:id", contactH.Get)
	admin.PUT("/contact/:id", contactH.Update)
	admin.POST("/contact/:id/answer", contactH.MarkAnswered)
	admin.DELETE("/contact/:id", contactH.Delete)

	admin.GET("/audit-logs", auditH.List)
}
