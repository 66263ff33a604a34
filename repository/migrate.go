package repository

import (
	"fmt"

	"github.com/amirphl/studio-hiring-api/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.JobPosting{},
		&models.Application{},
		&models.ContactLead{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
