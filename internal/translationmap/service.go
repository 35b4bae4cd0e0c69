package translationmap

import (
	"context"
	defError "errors"
	"strings"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/errors"

	"github.com/rs/zerolog"
)

// FieldLister lists the translatable field candidates of a doctype.
type FieldLister interface {
	ListTranslatableFields(ctx context.Context, doctype string) ([]domain.FieldInfo, error)
}

type Service interface {
	ListMaps(ctx context.Context) ([]domain.TranslationMap, error)
	GetMap(ctx context.Context, id uint) (*domain.TranslationMap, error)
	CreateMap(ctx context.Context, form MapRequest) (*domain.TranslationMap, error)
	UpdateMap(ctx context.Context, id uint, form MapRequest) (*domain.TranslationMap, error)
	DeleteMap(ctx context.Context, id uint) error
	AutoMapFields(ctx context.Context, id uint) (*domain.TranslationMap, error)
}

type DefaultService struct {
	repository Repository
	fields     FieldLister
	log        zerolog.Logger
}

func NewService(repository Repository, fields FieldLister, log zerolog.Logger) Service {
	return &DefaultService{repository: repository, fields: fields, log: log}
}

type FieldMappingRequest struct {
	FieldName string `json:"field_name" binding:"required,max=140"`
	Translate bool   `json:"translate"`
}

type MapRequest struct {
	DoctypeName   string                `json:"doctype_name" binding:"required,max=140"`
	IsActive      bool                  `json:"is_active"`
	FieldMappings []FieldMappingRequest `json:"field_mappings" binding:"dive"`
}

func (f MapRequest) mappings() ([]domain.FieldMapping, error) {
	seen := make(map[string]bool, len(f.FieldMappings))
	out := make([]domain.FieldMapping, 0, len(f.FieldMappings))
	for _, fm := range f.FieldMappings {
		name := strings.TrimSpace(fm.FieldName)
		if seen[name] {
			return nil, errors.BadRequest("Field "+name+" is mapped twice", nil)
		}
		seen[name] = true
		out = append(out, domain.FieldMapping{FieldName: name, Translate: fm.Translate})
	}
	return out, nil
}

func (s *DefaultService) ListMaps(ctx context.Context) ([]domain.TranslationMap, error) {
	maps, err := s.repository.List(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return maps, nil
}

func (s *DefaultService) GetMap(ctx context.Context, id uint) (*domain.TranslationMap, error) {
	m, err := s.repository.FindByID(ctx, id)
	if defError.Is(err, domain.ErrNotFound) {
		return nil, errors.NotFound("Translation Map not found", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return m, nil
}

func (s *DefaultService) CreateMap(ctx context.Context, form MapRequest) (*domain.TranslationMap, error) {
	mappings, err := form.mappings()
	if err != nil {
		return nil, err
	}

	m := &domain.TranslationMap{
		DoctypeName:   strings.TrimSpace(form.DoctypeName),
		IsActive:      form.IsActive,
		FieldMappings: mappings,
	}
	if err := s.repository.Create(ctx, m); err != nil {
		return nil, errors.Internal(err)
	}
	s.warnIfShadowed(ctx, m)
	return m, nil
}

func (s *DefaultService) UpdateMap(ctx context.Context, id uint, form MapRequest) (*domain.TranslationMap, error) {
	m, err := s.GetMap(ctx, id)
	if err != nil {
		return nil, err
	}
	mappings, err := form.mappings()
	if err != nil {
		return nil, err
	}

	m.DoctypeName = strings.TrimSpace(form.DoctypeName)
	m.IsActive = form.IsActive
	m.FieldMappings = mappings
	if err := s.repository.Update(ctx, m); err != nil {
		return nil, errors.Internal(err)
	}
	s.warnIfShadowed(ctx, m)
	return m, nil
}

func (s *DefaultService) DeleteMap(ctx context.Context, id uint) error {
	err := s.repository.Delete(ctx, id)
	if defError.Is(err, domain.ErrNotFound) {
		return errors.NotFound("Translation Map not found", err)
	}
	if err != nil {
		return errors.Internal(err)
	}
	return nil
}

// AutoMapFields appends every discovered translatable field that is not
// mapped yet, flagged for translation.
func (s *DefaultService) AutoMapFields(ctx context.Context, id uint) (*domain.TranslationMap, error) {
	m, err := s.GetMap(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := s.fields.ListTranslatableFields(ctx, m.DoctypeName)
	if err != nil {
		return nil, err
	}

	added := 0
	for _, f := range fields {
		if m.HasField(f.FieldName) {
			continue
		}
		m.FieldMappings = append(m.FieldMappings, domain.FieldMapping{FieldName: f.FieldName, Translate: true})
		added++
	}
	if added == 0 {
		return m, nil
	}

	if err := s.repository.Update(ctx, m); err != nil {
		return nil, errors.Internal(err)
	}
	s.log.Info().Str("doctype", m.DoctypeName).Int("added", added).Msg("auto-mapped translatable fields")
	return m, nil
}

// Only the first active map of a doctype is used by lookups.
func (s *DefaultService) warnIfShadowed(ctx context.Context, m *domain.TranslationMap) {
	if !m.IsActive {
		return
	}
	active, err := s.repository.FindActive(ctx, m.DoctypeName)
	if err != nil || active.ID == m.ID {
		return
	}
	s.log.Warn().
		Str("doctype", m.DoctypeName).
		Uint("map_id", m.ID).
		Uint("active_map_id", active.ID).
		Msg("another active Translation Map for this doctype takes precedence")
}
