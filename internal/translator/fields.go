package translator

import (
	"context"
	defError "errors"
	"strings"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/errors"
)

// FieldValue is one translatable field of a loaded document.
type FieldValue struct {
	Field string
	Value string
}

// ExtractFields returns the mapped translatable fields the document has a
// non-empty value for, in mapping order.
func ExtractFields(doc *domain.Document, m *domain.TranslationMap) []FieldValue {
	var out []FieldValue
	seen := make(map[string]bool)
	for _, field := range m.TranslatableFields() {
		if seen[field] {
			continue
		}
		seen[field] = true

		if value, ok := doc.Value(field); ok {
			out = append(out, FieldValue{Field: field, Value: value})
		}
	}
	return out
}

var translatableTypes = map[string]bool{
	"Data":        true,
	"Text":        true,
	"Small Text":  true,
	"Long Text":   true,
	"HTML":        true,
	"Text Editor": true,
}

var systemFields = map[string]bool{
	"name":        true,
	"owner":       true,
	"creation":    true,
	"modified":    true,
	"modified_by": true,
}

// FilterTranslatable keeps text-like fields, dropping system fields and
// read-only Data fields.
func FilterTranslatable(fields []domain.DocField) []domain.FieldInfo {
	out := make([]domain.FieldInfo, 0, len(fields))
	for _, f := range fields {
		if !translatableTypes[f.FieldType] || systemFields[f.FieldName] {
			continue
		}
		if f.FieldType == "Data" && bool(f.ReadOnly) {
			continue
		}
		label := f.Label
		if label == "" {
			label = f.FieldName
		}
		out = append(out, domain.FieldInfo{
			FieldName:  f.FieldName,
			FieldLabel: label,
			FieldType:  f.FieldType,
		})
	}
	return out
}

// MetaSource returns the schema of a document type.
type MetaSource interface {
	GetMeta(ctx context.Context, doctype string) ([]domain.DocField, error)
}

// FieldDiscovery lists translatable field candidates for configuration UIs.
type FieldDiscovery struct {
	meta MetaSource
}

func NewFieldDiscovery(meta MetaSource) *FieldDiscovery {
	return &FieldDiscovery{meta: meta}
}

func (d *FieldDiscovery) ListTranslatableFields(ctx context.Context, doctype string) ([]domain.FieldInfo, error) {
	doctype = strings.TrimSpace(doctype)
	if doctype == "" {
		return nil, errors.BadRequest("DocType name is required", nil)
	}

	fields, err := d.meta.GetMeta(ctx, doctype)
	if defError.Is(err, domain.ErrNotFound) {
		return nil, errors.NotFound("DocType "+doctype+" not found", err)
	}
	if err != nil {
		return nil, errors.BadGateway("Error getting fields for "+doctype, err)
	}

	return FilterTranslatable(fields), nil
}
