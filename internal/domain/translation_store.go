package domain

import (
	"time"

	"gorm.io/datatypes"
)

type TranslationStatus string

const (
	StatusCompleted TranslationStatus = "Completed"
	StatusFailed    TranslationStatus = "Failed"
)

// StoreKey is the composite identity of a Translation Store row.
type StoreKey struct {
	ParentDoctype string `json:"parent_doctype"`
	ParentName    string `json:"parent_name"`
	VersionID     string `json:"version_id"`
	Language      string `json:"language"`
}

// TranslationStore holds the translated fields of one document version in one language.
type TranslationStore struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	ParentDoctype     string            `gorm:"size:140;not null;uniqueIndex:idx_translation_store_key,priority:1" json:"parent_doctype"`
	ParentName        string            `gorm:"size:140;not null;uniqueIndex:idx_translation_store_key,priority:2" json:"parent_name"`
	VersionID         string            `gorm:"size:180;not null;uniqueIndex:idx_translation_store_key,priority:3" json:"version_id"`
	Language          string            `gorm:"size:16;not null;uniqueIndex:idx_translation_store_key,priority:4" json:"language"`
	TranslatedContent datatypes.JSON    `json:"translated_content"`
	TranslationStatus TranslationStatus `gorm:"size:16" json:"translation_status"`
	LastTranslated    *time.Time        `json:"last_translated"`
	EditMode          bool              `json:"edit_mode"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (TranslationStore) TableName() string {
	return "translation_store"
}

func (t *TranslationStore) Key() StoreKey {
	return StoreKey{
		ParentDoctype: t.ParentDoctype,
		ParentName:    t.ParentName,
		VersionID:     t.VersionID,
		Language:      t.Language,
	}
}
