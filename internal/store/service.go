package store

import (
	"context"
	defError "errors"
	"strings"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/errors"
)

type Service interface {
	GetTranslation(ctx context.Context, key domain.StoreKey) (map[string]string, error)
	GetHistory(ctx context.Context, doctype, docname string, page, pageSize int) (*PaginatedTranslations, error)
	EditTranslation(ctx context.Context, key domain.StoreKey, content map[string]string) (*TranslationResponse, error)
}

type DefaultService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &DefaultService{repository: repository}
}

// NormalizeKey lower-cases the language, store rows are keyed by lower-case codes.
func NormalizeKey(key domain.StoreKey) domain.StoreKey {
	key.Language = strings.ToLower(strings.TrimSpace(key.Language))
	return key
}

func (s *DefaultService) GetTranslation(ctx context.Context, key domain.StoreKey) (map[string]string, error) {
	content, err := s.repository.Get(ctx, NormalizeKey(key))
	if defError.Is(err, domain.ErrNotFound) {
		return nil, errors.NotFound("Translation not found", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return content, nil
}

type TranslationResponse struct {
	VersionID         string                   `json:"version_id"`
	Language          string                   `json:"language"`
	TranslationStatus domain.TranslationStatus `json:"translation_status"`
	TranslatedContent map[string]string        `json:"translated_content"`
	LastTranslated    *time.Time               `json:"last_translated"`
	EditMode          bool                     `json:"edit_mode"`
}

type HistoryMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

type PaginatedTranslations struct {
	Data []TranslationResponse `json:"data"`
	Meta HistoryMeta           `json:"meta"`
}

func toResponse(row *domain.TranslationStore) (TranslationResponse, error) {
	content, err := DecodeContent(row.TranslatedContent)
	if err != nil {
		return TranslationResponse{}, err
	}
	return TranslationResponse{
		VersionID:         row.VersionID,
		Language:          row.Language,
		TranslationStatus: row.TranslationStatus,
		TranslatedContent: content,
		LastTranslated:    row.LastTranslated,
		EditMode:          row.EditMode,
	}, nil
}

func (s *DefaultService) GetHistory(ctx context.Context, doctype, docname string, page, pageSize int) (*PaginatedTranslations, error) {
	rows, total, err := s.repository.ListByDocument(ctx, doctype, docname, page, pageSize)
	if err != nil {
		return nil, errors.Internal(err)
	}

	data := make([]TranslationResponse, 0, len(rows))
	for i := range rows {
		resp, err := toResponse(&rows[i])
		if err != nil {
			return nil, errors.Internal(err)
		}
		data = append(data, resp)
	}

	return &PaginatedTranslations{
		Data: data,
		Meta: HistoryMeta{
			Total:       total,
			CurrentPage: page,
			PerPage:     pageSize,
			TotalPage:   int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}, nil
}

func (s *DefaultService) EditTranslation(ctx context.Context, key domain.StoreKey, content map[string]string) (*TranslationResponse, error) {
	if len(content) == 0 {
		return nil, errors.BadRequest("Translated content cannot be empty", nil)
	}

	row, err := s.repository.SaveManualEdit(ctx, NormalizeKey(key), content)
	if defError.Is(err, domain.ErrNotFound) {
		return nil, errors.NotFound("Translation not found", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	resp, err := toResponse(row)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &resp, nil
}
