package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FrappeTimeLayout is the timestamp format the host uses for "modified".
const FrappeTimeLayout = "2006-01-02 15:04:05.999999"

// OriginalLanguageField is injected into documents on load.
const OriginalLanguageField = "original_language"

// Document is a host record with its fields exposed as an explicit map.
// Identity keys and the change list are lifted out of the field map.
type Document struct {
	Doctype  string
	Name     string
	Modified *time.Time
	Changed  []string
	Fields   map[string]interface{}
}

// Value returns the field as a string. ok is false when the document does
// not have the field or the value is empty after string coercion.
func (d *Document) Value(field string) (string, bool) {
	raw, exists := d.Fields[field]
	if !exists {
		return "", false
	}
	s := coerceString(raw)
	return s, s != ""
}

// Has reports whether the field is present, empty or not.
func (d *Document) Has(field string) bool {
	_, ok := d.Fields[field]
	return ok
}

// Set assigns a field value, allocating the map when needed.
func (d *Document) Set(field string, value interface{}) {
	if d.Fields == nil {
		d.Fields = make(map[string]interface{})
	}
	d.Fields[field] = value
}

// ChangedField reports whether the field is in the change-tracking list.
func (d *Document) ChangedField(field string) bool {
	for _, name := range d.Changed {
		if name == field {
			return true
		}
	}
	return false
}

func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	doc := Document{Fields: raw}
	if v, ok := raw["doctype"].(string); ok {
		doc.Doctype = v
	}
	if v, ok := raw["name"].(string); ok {
		doc.Name = v
	}
	if v, ok := raw["modified"].(string); ok && v != "" {
		modified, err := ParseModified(v)
		if err != nil {
			return fmt.Errorf("document %s: %w", doc.Name, err)
		}
		doc.Modified = &modified
	}
	if changed, ok := raw["_changed"].([]interface{}); ok {
		for _, c := range changed {
			if name, ok := c.(string); ok {
				doc.Changed = append(doc.Changed, name)
			}
		}
	}

	delete(raw, "doctype")
	delete(raw, "name")
	delete(raw, "modified")
	delete(raw, "_changed")

	*d = doc
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Fields)+4)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["doctype"] = d.Doctype
	out["name"] = d.Name
	if d.Modified != nil {
		out["modified"] = d.Modified.Format(FrappeTimeLayout)
	}
	if len(d.Changed) > 0 {
		out["_changed"] = d.Changed
	}
	return json.Marshal(out)
}

// isoLocalLayout is ISO 8601 without a zone, read as UTC.
const isoLocalLayout = "2006-01-02T15:04:05.999999999"

// ParseModified accepts the host's timestamp format, RFC 3339 and zone-less
// ISO 8601.
func ParseModified(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{FrappeTimeLayout, time.RFC3339Nano, isoLocalLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid modified timestamp %q", s)
}
