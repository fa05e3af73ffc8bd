package db

import (
	"littlelemon/internal/domain" // Importing domain models
	"littlelemon/internal/roles"  // Role group names

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// AutoMigrate creates tables, foreign keys, constraints, columns and indexes
// for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Category{},
		&domain.MenuItem{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	)
}

// SeedGroups makes sure the three role groups exist
func SeedGroups(db *gorm.DB) error {
	// One row per role, created only when missing
	for _, name := range []roles.Role{roles.Manager, roles.DeliveryCrew, roles.Customer} {
		group := domain.Group{Name: string(name)}
		if err := db.Where("name = ?", string(name)).FirstOrCreate(&group).Error; err != nil {
			return err // Seeding failed
		}
	}
	return nil
}

// Migrate performs automatic migration and seeds the role groups
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// Create the schema
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// Seed the role groups
	if err := SeedGroups(db); err != nil {
		logrus.Fatalf("seeding groups failed: %v", err) // Log fatal error if seeding fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
