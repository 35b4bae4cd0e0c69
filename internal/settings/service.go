package settings

import (
	"context"
	defError "errors"
	"strings"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/errors"

	"github.com/rs/zerolog"
)

type Service interface {
	// Current returns the settings or nil when they cannot be read.
	// Callers treat nil as "feature disabled".
	Current(ctx context.Context) *domain.TranslationSettings
	GetSettings(ctx context.Context) (*SettingsResponse, error)
	UpdateSettings(ctx context.Context, form UpdateRequest) (*SettingsResponse, error)
}

type DefaultService struct {
	repository Repository
	log        zerolog.Logger
}

func NewService(repository Repository, log zerolog.Logger) Service {
	return &DefaultService{repository: repository, log: log}
}

func (s *DefaultService) Current(ctx context.Context) *domain.TranslationSettings {
	settings, err := s.repository.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Error getting Translation Settings")
		return nil
	}
	return settings
}

type SettingsResponse struct {
	APIKeySet              bool   `json:"api_key_set"`
	APIKeyHint             string `json:"api_key_hint,omitempty"`
	EnableAutoTranslation  bool   `json:"enable_auto_translation"`
	AutoTranslateOnUpdate  bool   `json:"auto_translate_on_update"`
	DefaultSourceLanguage  string `json:"default_source_language"`
	DefaultTargetLanguages string `json:"default_target_languages"`
}

func toResponse(s *domain.TranslationSettings) *SettingsResponse {
	resp := &SettingsResponse{
		APIKeySet:              s.APIKey != "",
		EnableAutoTranslation:  s.EnableAutoTranslation,
		AutoTranslateOnUpdate:  s.AutoTranslateOnUpdate,
		DefaultSourceLanguage:  s.DefaultSourceLanguage,
		DefaultTargetLanguages: s.DefaultTargetLanguages,
	}
	if len(s.APIKey) > 4 {
		resp.APIKeyHint = "..." + s.APIKey[len(s.APIKey)-4:]
	}
	return resp
}

func (s *DefaultService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.repository.Get(ctx)
	if defError.Is(err, domain.ErrNotFound) {
		return nil, errors.NotFound("Translation Settings not configured", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return toResponse(settings), nil
}

type UpdateRequest struct {
	// APIKey is only replaced when non-nil, so the UI can leave it untouched.
	APIKey                 *string `json:"api_key"`
	EnableAutoTranslation  bool    `json:"enable_auto_translation"`
	AutoTranslateOnUpdate  bool    `json:"auto_translate_on_update"`
	DefaultSourceLanguage  string  `json:"default_source_language" binding:"omitempty,langcodes"`
	DefaultTargetLanguages string  `json:"default_target_languages" binding:"omitempty,langcodes"`
}

func (s *DefaultService) UpdateSettings(ctx context.Context, form UpdateRequest) (*SettingsResponse, error) {
	settings, err := s.repository.Get(ctx)
	if defError.Is(err, domain.ErrNotFound) {
		settings = &domain.TranslationSettings{}
	} else if err != nil {
		return nil, errors.Internal(err)
	}

	if form.APIKey != nil {
		settings.APIKey = strings.TrimSpace(*form.APIKey)
	}
	settings.EnableAutoTranslation = form.EnableAutoTranslation
	settings.AutoTranslateOnUpdate = form.AutoTranslateOnUpdate
	settings.DefaultSourceLanguage = strings.ToLower(strings.TrimSpace(form.DefaultSourceLanguage))
	settings.DefaultTargetLanguages = strings.Join(domain.SplitLanguages(form.DefaultTargetLanguages), ",")

	if err := s.repository.Save(ctx, settings); err != nil {
		return nil, errors.Internal(err)
	}
	s.log.Info().
		Bool("enable_auto_translation", settings.EnableAutoTranslation).
		Bool("auto_translate_on_update", settings.AutoTranslateOnUpdate).
		Str("targets", settings.DefaultTargetLanguages).
		Msg("Translation Settings updated")

	return toResponse(settings), nil
}
