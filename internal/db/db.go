package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/config"
	"github.com/creser-psicologia/creser-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Payment{},
		&models.Credit{},
		&models.Appointment{},
		&models.NewsArticle{},
		&models.ContactMessage{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	// One active booking per slot, enforced by the database. AutoMigrate
	// cannot express a partial index.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
        ON appointments (date, hour)
        WHERE status IN ('scheduled', 'confirmed')
    `)

	seedServices(db)

	return db
}

// seedServices inserts the catalog the credit-issuance rules depend on.
func seedServices(db *gorm.DB) {
	services := []models.Service{
		{
			Code:        "PSI-IND",
			Name:        "Psicoterapia individual",
			Description: "Sesión individual de psicoterapia",
			Price:       70000,
			DurationMin: 60,
			Category:    "terapeutico",
		},
		{
			Code:        "VAL-IND",
			Name:        "Valoración individual",
			Description: "Valoración inicial individual",
			Price:       60000,
			DurationMin: 60,
			Category:    "evaluacion",
		},
		{
			Code:        "EVA-SES",
			Name:        "Sesión de evaluación",
			Description: "Sesión del proceso de evaluación completa",
			Price:       50000,
			DurationMin: 60,
			Category:    "evaluacion",
		},
	}

	for _, s := range services {
		var count int64
		db.Model(&models.Service{}).Where("code = ?", s.Code).Count(&count)
		if count == 0 {
			s.Status = "active"
			if err := db.Create(&s).Error; err != nil {
				log.Warn().Err(err).Str("code", s.Code).Msg("failed to seed service")
			}
		}
	}
}
