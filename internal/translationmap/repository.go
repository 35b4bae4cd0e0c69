package translationmap

import (
	"context"
	"errors"

	"versioned-translator/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	FindActive(ctx context.Context, doctype string) (*domain.TranslationMap, error)
	FindByID(ctx context.Context, id uint) (*domain.TranslationMap, error)
	List(ctx context.Context) ([]domain.TranslationMap, error)
	Create(ctx context.Context, m *domain.TranslationMap) error
	Update(ctx context.Context, m *domain.TranslationMap) error
	Delete(ctx context.Context, id uint) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func withMappings(tx *gorm.DB) *gorm.DB {
	return tx.Preload("FieldMappings", func(db *gorm.DB) *gorm.DB {
		return db.Order("idx ASC").Order("id ASC")
	})
}

// FindActive returns the first active map for doctype, or domain.ErrNotFound.
func (r *RepositoryImpl) FindActive(ctx context.Context, doctype string) (*domain.TranslationMap, error) {
	var m domain.TranslationMap
	err := withMappings(r.db.WithContext(ctx)).
		Where("doctype_name = ? AND is_active = ?", doctype, true).
		Order("id ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.TranslationMap, error) {
	var m domain.TranslationMap
	err := withMappings(r.db.WithContext(ctx)).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]domain.TranslationMap, error) {
	var maps []domain.TranslationMap
	err := withMappings(r.db.WithContext(ctx)).Order("doctype_name ASC").Order("id ASC").Find(&maps).Error
	return maps, err
}

func (r *RepositoryImpl) Create(ctx context.Context, m *domain.TranslationMap) error {
	reindex(m)
	return r.db.WithContext(ctx).Create(m).Error
}

// Update saves the map and replaces its field mappings.
func (r *RepositoryImpl) Update(ctx context.Context, m *domain.TranslationMap) error {
	reindex(m)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Select("doctype_name", "is_active", "updated_at").Updates(m).Error; err != nil {
			return err
		}
		if err := tx.Where("translation_map_id = ?", m.ID).Delete(&domain.FieldMapping{}).Error; err != nil {
			return err
		}
		if len(m.FieldMappings) == 0 {
			return nil
		}
		for i := range m.FieldMappings {
			m.FieldMappings[i].ID = 0
			m.FieldMappings[i].TranslationMapID = m.ID
		}
		return tx.Create(&m.FieldMappings).Error
	})
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("translation_map_id = ?", id).Delete(&domain.FieldMapping{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.TranslationMap{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func reindex(m *domain.TranslationMap) {
	for i := range m.FieldMappings {
		m.FieldMappings[i].Idx = i + 1
	}
}
