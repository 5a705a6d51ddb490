package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/config"
	"github.com/Igsankya24/krishna-tech-solutions/internal/logger"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.UserRole{},
		&models.UserPermission{},
		&models.Session{},
		&models.Appointment{},
		&models.Service{},
		&models.Coupon{},
		&models.Setting{},
		&models.ClientCredential{},
		&models.AuditLog{},
	); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	// One live booking per slot; cancelled rows release the pair. The
	// predicate puts this beyond what a gorm index tag can express.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_slot
        ON appointments (appointment_date, appointment_time)
        WHERE status <> 'cancelled'
    `)

	return db
}
