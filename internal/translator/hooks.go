package translator

import (
	"context"
	defError "errors"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/queue"

	"github.com/rs/zerolog"
)

// DefaultRequestLanguage is used by OnLoad when the request carries none.
const DefaultRequestLanguage = "de"

// Hooks run on the host's document lifecycle. They never return errors,
// failures are logged and the document operation goes on.
type Hooks struct {
	settings   SettingsProvider
	maps       MapLookup
	queue      queue.Enqueuer
	jobTimeout time.Duration
	log        zerolog.Logger
}

func NewHooks(settings SettingsProvider, maps MapLookup, q queue.Enqueuer, jobTimeout time.Duration, log zerolog.Logger) *Hooks {
	return &Hooks{
		settings:   settings,
		maps:       maps,
		queue:      q,
		jobTimeout: jobTimeout,
		log:        log,
	}
}

func (h *Hooks) activeMap(ctx context.Context, doctype string) *domain.TranslationMap {
	m, err := h.maps.FindActive(ctx, doctype)
	if defError.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		h.log.Error().Err(err).Str("doctype", doctype).Msg("translation map lookup failed")
		return nil
	}
	return m
}

// OnLoad marks the document with the request language when its type is
// translatable and it has no original_language field yet. An existing field
// is kept even when empty. It reports whether the document was changed.
func (h *Hooks) OnLoad(ctx context.Context, doc *domain.Document, lang string) bool {
	if h.activeMap(ctx, doc.Doctype) == nil {
		return false
	}
	if doc.Has(domain.OriginalLanguageField) {
		return false
	}
	if lang == "" {
		lang = DefaultRequestLanguage
	}
	doc.Set(domain.OriginalLanguageField, lang)
	return true
}

// OnUpdate enqueues a translation job when auto translation is on and a
// mapped field changed. It reports whether a job was enqueued.
func (h *Hooks) OnUpdate(ctx context.Context, doc *domain.Document) bool {
	settings := h.settings.Current(ctx)
	if settings == nil || !settings.TranslatesOnUpdate() {
		return false
	}

	m := h.activeMap(ctx, doc.Doctype)
	if m == nil {
		return false
	}
	fields := m.TranslatableFields()
	if len(fields) == 0 {
		return false
	}

	changed := false
	for _, f := range fields {
		if doc.ChangedField(f) {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}

	job := domain.TranslationJob{Doctype: doc.Doctype, Docname: doc.Name}
	if err := h.queue.Enqueue(ctx, job, h.jobTimeout); err != nil {
		h.log.Error().Err(err).Str("doctype", doc.Doctype).Str("docname", doc.Name).Msg("enqueue translation job failed")
		return false
	}
	h.log.Debug().Str("doctype", doc.Doctype).Str("docname", doc.Name).Msg("translation job enqueued")
	return true
}
