package db

import (
	"versioned-translator/internal/domain"

	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.TranslationSettings{},
		&domain.TranslationMap{},
		&domain.FieldMapping{},
		&domain.TranslationStore{},
	)
}
