package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/config"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.PasswordResetToken{},

		// Tenant entities
		&entity.Tenant{},
		&entity.TenantMembership{},

		// Catalog entities
		&entity.Product{},
		&entity.Customer{},

		// Billing entities
		&entity.Bill{},
		&entity.BillItem{},
		&entity.BillSequence{},

		// Collaboration entities
		&entity.Note{},
		&entity.Webhook{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.UserSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions, admin user)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	permissions := []entity.Permission{
		{Name: "view-dashboard", GuardName: "web"},
		{Name: "manage-bills", GuardName: "web"},
		{Name: "manage-products", GuardName: "web"},
		{Name: "manage-customers", GuardName: "web"},
		{Name: "manage-notes", GuardName: "web"},
		{Name: "manage-webhooks", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
		{Name: "view-reports", GuardName: "web"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	// Create super-admin role with all permissions
	var superAdminRole entity.Role
	if err := db.Where("name = ?", "super-admin").First(&superAdminRole).Error; err != nil {
		superAdminRole = entity.Role{
			Name:        "super-admin",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&superAdminRole).Error; err != nil {
			log.Printf("Warning: failed to create super-admin role: %v", err)
		}
	}

	// Create owner role with all permissions
	var ownerRole entity.Role
	if err := db.Where("name = ?", "owner").First(&ownerRole).Error; err != nil {
		ownerRole = entity.Role{
			Name:        "owner",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&ownerRole).Error; err != nil {
			log.Printf("Warning: failed to create owner role: %v", err)
		}
	}

	// Create cashier role with billing-counter permissions only
	cashierPermissions := []string{
		"view-dashboard",
		"manage-bills",
		"manage-customers",
		"manage-notes",
	}
	var cashierPerms []entity.Permission
	for _, name := range cashierPermissions {
		for _, p := range allPermissions {
			if p.Name == name {
				cashierPerms = append(cashierPerms, p)
				break
			}
		}
	}

	var cashierRole entity.Role
	if err := db.Where("name = ?", "cashier").First(&cashierRole).Error; err != nil {
		cashierRole = entity.Role{
			Name:        "cashier",
			GuardName:   "web",
			Permissions: cashierPerms,
		}
		if err := db.Create(&cashierRole).Error; err != nil {
			log.Printf("Warning: failed to create cashier role: %v", err)
		}
	}

	// Create super admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				var saRole entity.Role
				if err := db.Where("name = ?", "super-admin").First(&saRole).Error; err == nil {
					if adminName == "" {
						adminName = "Super Admin"
					}
					firstName := adminName
					lastName := ""
					for i, c := range adminName {
						if c == ' ' {
							firstName = adminName[:i]
							lastName = adminName[i+1:]
							break
						}
					}
					adminUser := entity.User{
						ID:        uuid.New(),
						FirstName: firstName,
						LastName:  lastName,
						Email:     adminEmail,
						Password:  string(hashedPassword),
						Roles:     []entity.Role{saRole},
					}
					if err := db.Create(&adminUser).Error; err != nil {
						log.Printf("Warning: failed to create super admin user: %v", err)
					} else {
						log.Printf("Super admin user created: %s", adminEmail)
					}
				}
			}
		} else {
			log.Printf("Super admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
