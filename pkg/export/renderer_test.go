package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer-be/pkg/apperrors"
)

func sampleDocument() Document {
	return Document{
		SessionID:      "2df0c3f7-3a0e-4ad1-8a37-52ad63313184",
		Filename:       "contract.pdf",
		AnonymizedText: "Agreement between [PERSON_1] and [ORG_1].\nSigned [DATE_1].",
		Mappings: []MappingMetadata{
			{EntityType: "PERSON", Placeholder: "[PERSON_1]", Confidence: 0.95, Method: "ner"},
			{EntityType: "ORG", Placeholder: "[ORG_1]", Confidence: 0.9, Method: "ner"},
			{EntityType: "DATE", Placeholder: "[DATE_1]", Confidence: 1.0, Method: "regex"},
		},
		ExportedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"txt", FormatTXT, false},
		{"JSON", FormatJSON, false},
		{"Pdf", FormatPDF, false},
		{"docx", FormatDOCX, false},
		{"csv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTXTIsExactlyAnonymizedText(t *testing.T) {
	doc := sampleDocument()
	data, contentType, err := Render(FormatTXT, doc)
	require.NoError(t, err)
	assert.Equal(t, doc.AnonymizedText, string(data))
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
}

func TestRenderJSONCarriesOnlyMappingMetadata(t *testing.T) {
	data, contentType, err := Render(FormatJSON, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))

	mappings, ok := payload["mappings"].([]interface{})
	require.True(t, ok)
	require.Len(t, mappings, 3)

	first := mappings[0].(map[string]interface{})
	assert.Equal(t, "[PERSON_1]", first["placeholder"])
	assert.Equal(t, "PERSON", first["entity_type"])
	_, hasOriginal := first["original_value"]
	assert.False(t, hasOriginal, "export must never contain original values")
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := sampleDocument()
	for _, format := range []Format{FormatTXT, FormatJSON, FormatPDF, FormatDOCX} {
		first, _, err := Render(format, doc)
		require.NoError(t, err)
		second, _, err := Render(format, doc)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, second), "format %s must render identically on repeat", format)
	}
}

func TestRenderPDFStructure(t *testing.T) {
	data, contentType, err := Render(FormatPDF, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-1.4")))
	assert.Contains(t, string(data), "%%EOF")
}

func TestRenderDOCXIsZipPackage(t *testing.T) {
	data, contentType, err := Render(FormatDOCX, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "docx is a zip container")
}

func TestWrapLinesKeepsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 100)
	lines := wrapLines(text, 80)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, utf8.ValidString(line))
	}
	assert.Equal(t, text, strings.Join(lines, ""))
}

func TestWrapLinesBreaksOnSpaces(t *testing.T) {
	lines := wrapLines("alpha beta gamma", 10)
	assert.Equal(t, []string{"alpha", "beta gamma"}, lines)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "txt", FileExtension(FormatTXT))
	assert.Equal(t, "docx", FileExtension(FormatDOCX))
}
