package domain

import (
	"bytes"
	"fmt"
)

// Check is the host's 0/1 boolean encoding.
type Check bool

func (c *Check) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "1", "true", `"1"`:
		*c = true
	case "0", "false", `"0"`, "null", `""`:
		*c = false
	default:
		return fmt.Errorf("invalid check value %s", data)
	}
	return nil
}

// DocField is one field of a document type's schema.
type DocField struct {
	FieldName string `json:"fieldname"`
	Label     string `json:"label"`
	FieldType string `json:"fieldtype"`
	ReadOnly  Check  `json:"read_only"`
}

// FieldInfo describes a translatable field candidate for configuration UIs.
type FieldInfo struct {
	FieldName  string `json:"field_name"`
	FieldLabel string `json:"field_label"`
	FieldType  string `json:"field_type"`
}
