package settings

import (
	"context"
	"errors"

	"versioned-translator/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context) (*domain.TranslationSettings, error)
	Save(ctx context.Context, settings *domain.TranslationSettings) error
	Seed(ctx context.Context, defaults domain.TranslationSettings) (bool, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// Get reads the singleton row, domain.ErrNotFound when it was never created.
func (r *RepositoryImpl) Get(ctx context.Context) (*domain.TranslationSettings, error) {
	var s domain.TranslationSettings
	err := r.db.WithContext(ctx).First(&s, domain.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RepositoryImpl) Save(ctx context.Context, settings *domain.TranslationSettings) error {
	settings.ID = domain.SettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}

// Seed creates the singleton from defaults when it does not exist yet.
// It reports whether a row was created.
func (r *RepositoryImpl) Seed(ctx context.Context, defaults domain.TranslationSettings) (bool, error) {
	_, err := r.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	defaults.ID = domain.SettingsID
	if err := r.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return false, err
	}
	return true, nil
}
