package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"versioned-translator/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, key domain.StoreKey, content map[string]string, status domain.TranslationStatus) error
	MarkStatus(ctx context.Context, key domain.StoreKey, status domain.TranslationStatus) error
	Get(ctx context.Context, key domain.StoreKey) (map[string]string, error)
	Find(ctx context.Context, key domain.StoreKey) (*domain.TranslationStore, error)
	ListByDocument(ctx context.Context, doctype, docname string, page, pageSize int) ([]domain.TranslationStore, int64, error)
	SaveManualEdit(ctx context.Context, key domain.StoreKey, content map[string]string) (*domain.TranslationStore, error)
}

type RepositoryImpl struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, now: time.Now}
}

func byKey(tx *gorm.DB, key domain.StoreKey) *gorm.DB {
	return tx.Where(
		"parent_doctype = ? AND parent_name = ? AND version_id = ? AND language = ?",
		key.ParentDoctype, key.ParentName, key.VersionID, key.Language,
	)
}

func lookup(tx *gorm.DB, key domain.StoreKey) (*domain.TranslationStore, error) {
	var row domain.TranslationStore
	err := byKey(tx, key).Order("id ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes the content for key. An existing row gets its content,
// status and last_translated overwritten, otherwise a new row is inserted.
// The write runs in its own transaction and is rolled back on failure.
func (r *RepositoryImpl) Upsert(ctx context.Context, key domain.StoreKey, content map[string]string, status domain.TranslationStatus) error {
	blob, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode translated content: %w", err)
	}
	now := r.now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lookup(tx, key)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if existing != nil {
			return tx.Model(existing).Updates(map[string]interface{}{
				"translated_content": datatypes.JSON(blob),
				"translation_status": status,
				"last_translated":    now,
			}).Error
		}

		return tx.Create(&domain.TranslationStore{
			ParentDoctype:     key.ParentDoctype,
			ParentName:        key.ParentName,
			VersionID:         key.VersionID,
			Language:          key.Language,
			TranslatedContent: datatypes.JSON(blob),
			TranslationStatus: status,
			LastTranslated:    &now,
			EditMode:          false,
		}).Error
	})
}

// MarkStatus records a status for key. An existing row only has its status
// changed, a missing row is created with empty content.
func (r *RepositoryImpl) MarkStatus(ctx context.Context, key domain.StoreKey, status domain.TranslationStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lookup(tx, key)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if existing != nil {
			return tx.Model(existing).Update("translation_status", status).Error
		}

		return tx.Create(&domain.TranslationStore{
			ParentDoctype:     key.ParentDoctype,
			ParentName:        key.ParentName,
			VersionID:         key.VersionID,
			Language:          key.Language,
			TranslatedContent: datatypes.JSON("{}"),
			TranslationStatus: status,
		}).Error
	})
}

// Find returns the raw row for key or domain.ErrNotFound.
func (r *RepositoryImpl) Find(ctx context.Context, key domain.StoreKey) (*domain.TranslationStore, error) {
	return lookup(r.db.WithContext(ctx), key)
}

// Get returns the translated fields for key. A missing row yields
// domain.ErrNotFound, read and decode failures are returned wrapped.
func (r *RepositoryImpl) Get(ctx context.Context, key domain.StoreKey) (map[string]string, error) {
	row, err := r.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	return DecodeContent(row.TranslatedContent)
}

// DecodeContent parses a stored content blob. An empty blob decodes to an empty map.
func DecodeContent(blob datatypes.JSON) (map[string]string, error) {
	content := map[string]string{}
	if len(blob) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(blob, &content); err != nil {
		return nil, fmt.Errorf("decode translated content: %w", err)
	}
	return content, nil
}

func (r *RepositoryImpl) ListByDocument(ctx context.Context, doctype, docname string, page, pageSize int) ([]domain.TranslationStore, int64, error) {
	var rows []domain.TranslationStore
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.TranslationStore{}).
		Where("parent_doctype = ? AND parent_name = ?", doctype, docname).
		Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("updated_at DESC").Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&rows).Error

	return rows, total, err
}

// SaveManualEdit overwrites the content of an existing row and flags it as
// manually edited.
func (r *RepositoryImpl) SaveManualEdit(ctx context.Context, key domain.StoreKey, content map[string]string) (*domain.TranslationStore, error) {
	blob, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode translated content: %w", err)
	}

	var row *domain.TranslationStore
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lookup(tx, key)
		if err != nil {
			return err
		}
		existing.TranslatedContent = datatypes.JSON(blob)
		existing.EditMode = true
		if err := tx.Model(existing).Select("translated_content", "edit_mode").Updates(existing).Error; err != nil {
			return err
		}
		row = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}
