package domain

import (
	"strings"
	"time"
)

// DefaultSourceLanguage is used when the settings leave the source empty.
const DefaultSourceLanguage = "de"

// SettingsID is the primary key of the settings singleton row.
const SettingsID = 1

// TranslationSettings is the singleton configuration record.
type TranslationSettings struct {
	ID                     uint      `gorm:"primaryKey" json:"-"`
	APIKey                 string    `json:"api_key"`
	EnableAutoTranslation  bool      `json:"enable_auto_translation"`
	AutoTranslateOnUpdate  bool      `json:"auto_translate_on_update"`
	DefaultSourceLanguage  string    `gorm:"size:16" json:"default_source_language"`
	DefaultTargetLanguages string    `json:"default_target_languages"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (TranslationSettings) TableName() string {
	return "translation_settings"
}

// SourceLanguage returns the configured source language or the default.
func (s *TranslationSettings) SourceLanguage() string {
	if lang := strings.TrimSpace(s.DefaultSourceLanguage); lang != "" {
		return lang
	}
	return DefaultSourceLanguage
}

// TargetLanguages splits the comma separated target list into upper-cased codes.
func (s *TranslationSettings) TargetLanguages() []string {
	return SplitLanguages(s.DefaultTargetLanguages)
}

// TranslatesOnUpdate reports whether both update gates are open.
func (s *TranslationSettings) TranslatesOnUpdate() bool {
	return s.EnableAutoTranslation && s.AutoTranslateOnUpdate
}

// SplitLanguages parses "en, fr,,IT" into [EN FR IT].
func SplitLanguages(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if lang := strings.TrimSpace(part); lang != "" {
			out = append(out, strings.ToUpper(lang))
		}
	}
	return out
}
