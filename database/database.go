package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quickstaff-server/config"
	"quickstaff-server/models"
)

var DB *gorm.DB

// Initialize sets up the database connection and runs migrations
func Initialize() error {
	connString := os.Getenv("DB_URL")
	if connString == "" {
		c := config.AppConfig.Database
		connString = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return nil
}

// runMigrations creates or updates database tables
func runMigrations() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.WorkerProfile{},
		&models.Service{},
		&models.WorkerService{},
		&models.JobRequest{},
		&models.Booking{},
		&models.Review{},
	); err != nil {
		return err
	}

	if err := migrateBookingStatusNotNull(); err != nil {
		return err
	}

	return ensureReviewBookingUnique()
}

// migrateBookingStatusNotNull backfills legacy rows that predate the status
// column and pins the NOT NULL DEFAULT, so list filtering never has to branch
// on NULL again.
func migrateBookingStatusNotNull() error {
	if !DB.Migrator().HasTable(&models.Booking{}) {
		return nil
	}

	if err := DB.Exec("UPDATE bookings SET status = 'pending' WHERE status IS NULL").Error; err != nil {
		return err
	}
	if err := DB.Exec("ALTER TABLE bookings ALTER COLUMN status SET DEFAULT 'pending'").Error; err != nil {
		return err
	}
	if err := DB.Exec("ALTER TABLE bookings ALTER COLUMN status SET NOT NULL").Error; err != nil {
		return err
	}

	return nil
}

// ensureReviewBookingUnique guarantees the at-most-one-review-per-booking
// invariant at the storage layer. AutoMigrate creates the index for fresh
// databases; this covers tables that predate the constraint.
func ensureReviewBookingUnique() error {
	if !DB.Migrator().HasTable(&models.Review{}) {
		return nil
	}

	return DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_booking ON reviews (booking_id)",
	).Error
}

func GetDB() *gorm.DB {
	return DB
}
