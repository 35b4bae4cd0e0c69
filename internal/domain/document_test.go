package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_UnmarshalHostPayload(t *testing.T) {
	payload := `{
		"doctype": "Article",
		"name": "A1",
		"modified": "2024-01-01 10:00:00.123456",
		"_changed": ["title"],
		"title": "Hallo",
		"views": 3,
		"notes": null
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))

	assert.Equal(t, "Article", doc.Doctype)
	assert.Equal(t, "A1", doc.Name)
	require.NotNil(t, doc.Modified)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC), *doc.Modified)
	assert.Equal(t, []string{"title"}, doc.Changed)
	assert.False(t, doc.Has("doctype"))

	title, ok := doc.Value("title")
	assert.True(t, ok)
	assert.Equal(t, "Hallo", title)

	views, ok := doc.Value("views")
	assert.True(t, ok)
	assert.Equal(t, "3", views)

	_, ok = doc.Value("notes")
	assert.False(t, ok)
	assert.True(t, doc.Has("notes"))

	_, ok = doc.Value("missing")
	assert.False(t, ok)
}

func TestDocument_UnmarshalWithoutModified(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"doctype":"Article","name":"A2"}`), &doc))
	assert.Nil(t, doc.Modified)
}

func TestDocument_UnmarshalModifiedFormats(t *testing.T) {
	expected := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, modified := range []string{
		"2024-01-01 10:00:00",
		"2024-01-01 10:00:00.000000",
		"2024-01-01T10:00:00",
		"2024-01-01T10:00:00.000",
		"2024-01-01T10:00:00Z",
		"2024-01-01T12:00:00+02:00",
	} {
		t.Run(modified, func(t *testing.T) {
			var doc Document
			err := json.Unmarshal([]byte(`{"doctype":"Article","name":"A1","modified":"`+modified+`"}`), &doc)

			require.NoError(t, err)
			require.NotNil(t, doc.Modified)
			assert.True(t, expected.Equal(*doc.Modified), "got %s", doc.Modified)
		})
	}
}

func TestDocument_UnmarshalInvalidModified(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"doctype":"Article","name":"A2","modified":"yesterday"}`), &doc)
	assert.Error(t, err)
}

func TestDocument_MarshalRoundTripKeepsIdentity(t *testing.T) {
	modified := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	doc := Document{Doctype: "Article", Name: "A1", Modified: &modified}
	doc.Set(OriginalLanguageField, "de")

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Article", out["doctype"])
	assert.Equal(t, "A1", out["name"])
	assert.Equal(t, "2024-01-01 10:00:00", out["modified"])
	assert.Equal(t, "de", out["original_language"])
}

func TestDocument_ChangedField(t *testing.T) {
	doc := Document{Changed: []string{"title", "body"}}
	assert.True(t, doc.ChangedField("body"))
	assert.False(t, doc.ChangedField("internal_id"))
}

func TestCheck_Unmarshal(t *testing.T) {
	var fields []DocField
	payload := `[{"fieldname":"a","read_only":1},{"fieldname":"b","read_only":0},{"fieldname":"c"}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &fields))

	assert.True(t, bool(fields[0].ReadOnly))
	assert.False(t, bool(fields[1].ReadOnly))
	assert.False(t, bool(fields[2].ReadOnly))
}
