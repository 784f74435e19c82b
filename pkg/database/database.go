package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"permit-service/internal/model"
	"permit-service/pkg/config"
)

var db *gorm.DB

// InitDB opens the connection, runs migrations and seeds the admin tenant.
func InitDB(appConfig *config.Config) error {
	pgConfig := postgres.Config{
		DSN:                  appConfig.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: gormlogger.Default.LogMode(appConfig.DB.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(appConfig.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(appConfig.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(appConfig.DB.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return err
	}
	return SeedAdminCompany(db, appConfig.Admin.CompanyName, appConfig.Admin.CompanySlug)
}

// Migrate runs the schema migrations for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Company{},
		&model.Allocation{},
		&model.Truck{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// SeedAdminCompany makes sure the default admin tenant exists with its two
// zeroed allocation rows. Every deployment has exactly one admin company and
// it is never deletable.
func SeedAdminCompany(db *gorm.DB, name, slug string) error {
	var count int64
	if err := db.Model(&model.Company{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		company := model.Company{Name: name, Slug: slug, IsAdmin: true}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		for _, category := range model.Categories {
			allocation := model.Allocation{CompanyID: company.ID, ProductType: category}
			if err := tx.Create(&allocation).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
