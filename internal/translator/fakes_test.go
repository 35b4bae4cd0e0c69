package translator

import (
	"context"
	"strings"
	"sync"
	"time"

	"versioned-translator/internal/domain"
)

type fakeDocs map[string]*domain.Document

func (f fakeDocs) GetDoc(_ context.Context, doctype, name string) (*domain.Document, error) {
	doc, ok := f[doctype+"/"+name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

type fakeSettings struct {
	settings *domain.TranslationSettings
}

func (f fakeSettings) Current(context.Context) *domain.TranslationSettings {
	return f.settings
}

type fakeMaps struct {
	maps map[string]*domain.TranslationMap
	err  error
}

func (f fakeMaps) FindActive(_ context.Context, doctype string) (*domain.TranslationMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.maps[doctype]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// fakeTranslator answers per upper-cased target language.
type fakeTranslator struct {
	mu      sync.Mutex
	answers map[string]func(text string) (string, error)
	calls   []string
}

func (f *fakeTranslator) Translate(_ context.Context, apiKey, text, sourceLang, targetLang string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, strings.ToUpper(sourceLang)+">"+strings.ToUpper(targetLang)+":"+text)
	f.mu.Unlock()
	return f.answers[strings.ToUpper(targetLang)](text)
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []domain.TranslationJob
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, job domain.TranslationJob, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func articleMap() *domain.TranslationMap {
	return &domain.TranslationMap{
		DoctypeName: "Article",
		IsActive:    true,
		FieldMappings: []domain.FieldMapping{
			{Idx: 1, FieldName: "title", Translate: true},
			{Idx: 2, FieldName: "internal_id", Translate: false},
		},
	}
}

func articleDoc() *domain.Document {
	modified := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Document{
		Doctype:  "Article",
		Name:     "A1",
		Modified: &modified,
		Fields: map[string]interface{}{
			"title":       "Hallo",
			"internal_id": "X-42",
		},
	}
}

func activeSettings() *domain.TranslationSettings {
	return &domain.TranslationSettings{
		APIKey:                 "K",
		EnableAutoTranslation:  true,
		AutoTranslateOnUpdate:  true,
		DefaultSourceLanguage:  "de",
		DefaultTargetLanguages: "EN,FR",
	}
}
