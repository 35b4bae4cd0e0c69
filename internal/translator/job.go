package translator

import (
	"context"
	defError "errors"
	"fmt"
	"strings"
	"time"

	"versioned-translator/internal/domain"

	"github.com/rs/zerolog"
)

var (
	ErrMissingAPIKey     = defError.New("translator: DeepL API key not configured")
	ErrNoTargetLanguages = defError.New("translator: no target languages configured")
	ErrNoActiveMap       = defError.New("translator: no active translation map")
	ErrNoFields          = defError.New("translator: no fields to translate")
)

type DocumentSource interface {
	GetDoc(ctx context.Context, doctype, name string) (*domain.Document, error)
}

type SettingsProvider interface {
	Current(ctx context.Context) *domain.TranslationSettings
}

type MapLookup interface {
	FindActive(ctx context.Context, doctype string) (*domain.TranslationMap, error)
}

type Translator interface {
	Translate(ctx context.Context, apiKey, text, sourceLang, targetLang string) (string, error)
}

type StoreWriter interface {
	Upsert(ctx context.Context, key domain.StoreKey, content map[string]string, status domain.TranslationStatus) error
	MarkStatus(ctx context.Context, key domain.StoreKey, status domain.TranslationStatus) error
}

// LanguageResult is the outcome of one target language.
type LanguageResult struct {
	Language   string                   `json:"language"`
	Status     domain.TranslationStatus `json:"status"`
	Translated int                      `json:"translated"`
	Skipped    []string                 `json:"skipped,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

type JobReport struct {
	Doctype   string           `json:"doctype"`
	Docname   string           `json:"docname"`
	VersionID string           `json:"version_id"`
	Languages []LanguageResult `json:"languages"`
	Took      time.Duration    `json:"took"`
}

// Failed returns the languages that ended in the Failed status.
func (r *JobReport) Failed() []string {
	var out []string
	for _, l := range r.Languages {
		if l.Status == domain.StatusFailed {
			out = append(out, l.Language)
		}
	}
	return out
}

// Runner translates a document into every configured target language.
type Runner struct {
	docs       DocumentSource
	settings   SettingsProvider
	maps       MapLookup
	translator Translator
	store      StoreWriter
	log        zerolog.Logger
}

func NewRunner(docs DocumentSource, settings SettingsProvider, maps MapLookup, translator Translator, store StoreWriter, log zerolog.Logger) *Runner {
	return &Runner{
		docs:       docs,
		settings:   settings,
		maps:       maps,
		translator: translator,
		store:      store,
		log:        log,
	}
}

// Run loads the document and writes one store row per target language.
// Configuration problems abort the job with an error. Failures of a single
// field or language are recorded and never stop the other languages.
func (r *Runner) Run(ctx context.Context, doctype, docname string) (*JobReport, error) {
	start := time.Now()

	doc, err := r.docs.GetDoc(ctx, doctype, docname)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", doctype, docname, err)
	}

	settings := r.settings.Current(ctx)
	if settings == nil || settings.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	targets := settings.TargetLanguages()
	if len(targets) == 0 {
		return nil, ErrNoTargetLanguages
	}

	m, err := r.maps.FindActive(ctx, doctype)
	if defError.Is(err, domain.ErrNotFound) {
		return nil, ErrNoActiveMap
	}
	if err != nil {
		return nil, fmt.Errorf("find translation map for %s: %w", doctype, err)
	}

	fields := ExtractFields(doc, m)
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	report := &JobReport{
		Doctype:   doctype,
		Docname:   docname,
		VersionID: VersionID(doc),
	}
	source := settings.SourceLanguage()
	for _, target := range targets {
		key := domain.StoreKey{
			ParentDoctype: doctype,
			ParentName:    docname,
			VersionID:     report.VersionID,
			Language:      strings.ToLower(target),
		}
		report.Languages = append(report.Languages, r.runLanguage(ctx, settings.APIKey, source, key, fields))
	}
	report.Took = time.Since(start)

	return report, nil
}

func (r *Runner) runLanguage(ctx context.Context, apiKey, source string, key domain.StoreKey, fields []FieldValue) LanguageResult {
	log := r.log.With().
		Str("doctype", key.ParentDoctype).
		Str("docname", key.ParentName).
		Str("language", key.Language).
		Logger()
	result := LanguageResult{Language: key.Language}

	content := make(map[string]string, len(fields))
	for _, f := range fields {
		translated, err := r.translator.Translate(ctx, apiKey, f.Value, source, key.Language)
		if err != nil {
			log.Warn().Err(err).Str("field", f.Field).Msg("field translation failed")
			result.Skipped = append(result.Skipped, f.Field)
			continue
		}
		if translated == "" {
			log.Warn().Str("field", f.Field).Msg("blank translation dropped")
			result.Skipped = append(result.Skipped, f.Field)
			continue
		}
		content[f.Field] = translated
	}

	if len(content) == 0 {
		result.Error = "no field could be translated"
		return r.markFailed(ctx, log, key, result)
	}

	if err := r.store.Upsert(ctx, key, content, domain.StatusCompleted); err != nil {
		log.Error().Err(err).Msg("saving translation failed")
		result.Error = err.Error()
		return r.markFailed(ctx, log, key, result)
	}

	result.Status = domain.StatusCompleted
	result.Translated = len(content)
	log.Info().Int("fields", len(content)).Str("version_id", key.VersionID).Msg("translation saved")
	return result
}

func (r *Runner) markFailed(ctx context.Context, log zerolog.Logger, key domain.StoreKey, result LanguageResult) LanguageResult {
	result.Status = domain.StatusFailed
	if err := r.store.MarkStatus(ctx, key, domain.StatusFailed); err != nil {
		log.Error().Err(err).Msg("recording failed status failed")
	}
	return result
}

// Handle runs a queued job. It has the signature of queue.Handler.
func (r *Runner) Handle(ctx context.Context, job domain.TranslationJob) error {
	report, err := r.Run(ctx, job.Doctype, job.Docname)
	if err != nil {
		return err
	}

	r.log.Info().
		Str("doctype", report.Doctype).
		Str("docname", report.Docname).
		Str("version_id", report.VersionID).
		Strs("failed", report.Failed()).
		Dur("took", report.Took).
		Msg("translation job finished")
	return nil
}
