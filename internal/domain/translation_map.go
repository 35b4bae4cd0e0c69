package domain

import "time"

// TranslationMap selects which fields of a document type are translatable.
type TranslationMap struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	DoctypeName   string         `gorm:"size:140;index;not null" json:"doctype_name"`
	IsActive      bool           `gorm:"index" json:"is_active"`
	FieldMappings []FieldMapping `gorm:"constraint:OnDelete:CASCADE" json:"field_mappings"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// FieldMapping is one row of a TranslationMap. Idx keeps the list order.
type FieldMapping struct {
	ID               uint   `gorm:"primaryKey" json:"-"`
	TranslationMapID uint   `gorm:"index" json:"-"`
	Idx              int    `json:"idx"`
	FieldName        string `gorm:"size:140;not null" json:"field_name"`
	Translate        bool   `json:"translate"`
}

// TranslatableFields returns the names of mappings flagged for translation,
// in list order.
func (m *TranslationMap) TranslatableFields() []string {
	var out []string
	for _, fm := range m.FieldMappings {
		if fm.Translate {
			out = append(out, fm.FieldName)
		}
	}
	return out
}

// HasField reports whether a mapping for the field exists, flagged or not.
func (m *TranslationMap) HasField(name string) bool {
	for _, fm := range m.FieldMappings {
		if fm.FieldName == name {
			return true
		}
	}
	return false
}
