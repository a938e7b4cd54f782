package database

import (
	"HillsideClinic/models"
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// InitDB initializes the database connection and configures it.
func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	var err error

	// Configure logging level based on environment
	logMode := logger.Silent
	if os.Getenv("ENV") == "development" {
		logMode = logger.Info
	}

	// Open the database connection
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	// Configure connection pool
	if err := configureConnectionPool(); err != nil {
		return nil, err
	}

	// Test the database connection
	if err := testDatabaseConnection(ctx); err != nil {
		return nil, err
	}

	// Run migrations
	if err := runMigrations(); err != nil {
		return nil, err
	}

	// Seed initial data
	if err := seedInitialData(); err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// runMigrations performs database schema migrations.
func runMigrations() error {
	// Sequences backing the human-readable record identifiers.
	for _, seq := range []string{"patient_id_seq", "visit_id_seq", "billing_id_seq", "emergency_billing_id_seq"} {
		if err := DB.Exec("CREATE SEQUENCE IF NOT EXISTS " + seq).Error; err != nil {
			return errors.Wrapf(err, "failed to create sequence %s", seq)
		}
	}
	err := DB.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.Visit{},
		&models.VisitOrder{},
		&models.VitalsRecord{},
		&models.Billing{},
		&models.BillingService{},
		&models.Payment{},
		&models.EmergencyBilling{},
		&models.EmergencyService{},
		&models.PreRegistrationEntry{},
		&models.ServiceCatalogItem{},
	)
	if err != nil {
		return err
	}
	// The storage layer enforces at most one PENDING pre-registration per
	// phone and per linked patient.
	for _, stmt := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_prereg_pending_phone ON pre_registration_entry (phone) WHERE status = 'PENDING'",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_prereg_pending_patient ON pre_registration_entry (patient_id) WHERE status = 'PENDING' AND patient_id IS NOT NULL",
	} {
		if err := DB.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "failed to create pending pre-registration index")
		}
	}
	return nil
}

// seedInitialData populates the database with initial data.
func seedInitialData() error {
	if err := models.SeedRoles(DB); err != nil {
		return errors.Wrap(err, "failed to seed roles")
	}
	if err := models.SeedPermissions(DB); err != nil {
		return errors.Wrap(err, "failed to seed permissions")
	}
	if err := models.SeedRolePermissions(DB); err != nil {
		return errors.Wrap(err, "failed to seed role permissions")
	}
	if err := models.SeedServiceCatalog(DB); err != nil {
		return errors.Wrap(err, "failed to seed service catalog")
	}
	return nil
}
