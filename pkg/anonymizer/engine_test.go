package anonymizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/detector"
)

func entityAt(text, value, entityType string, confidence float64) detector.Entity {
	start := strings.Index(text, value)
	return detector.Entity{
		Type:            entityType,
		Value:           value,
		NormalizedValue: detector.Normalize(value),
		Start:           start,
		End:             start + len(value),
		Confidence:      confidence,
		Method:          "test",
	}
}

func TestAnonymizeFullDocument(t *testing.T) {
	text := "Call John Smith at 555-123-4567 or john@x.com"
	entities := []detector.Entity{
		entityAt(text, "John Smith", detector.TypePerson, 0.95),
		entityAt(text, "555-123-4567", detector.TypePhone, 1.0),
		entityAt(text, "john@x.com", detector.TypeEmail, 1.0),
	}

	result, err := NewEngine().Anonymize(text, entities)
	require.NoError(t, err)

	assert.Equal(t, "Call [PERSON_1] at [PHONE_1] or [EMAIL_1]", result.AnonymizedText)
	assert.Len(t, result.Mappings, 3)
	assert.Empty(t, result.Dropped)
}

func TestAnonymizeRepeatedValueSharesPlaceholder(t *testing.T) {
	text := "Alice met Bob. Later Alice left."
	entities := []detector.Entity{
		{Type: detector.TypePerson, Value: "Alice", NormalizedValue: "alice", Start: 0, End: 5, Confidence: 0.9, Method: "test"},
		{Type: detector.TypePerson, Value: "Bob", NormalizedValue: "bob", Start: 10, End: 13, Confidence: 0.9, Method: "test"},
		{Type: detector.TypePerson, Value: "Alice", NormalizedValue: "alice", Start: 21, End: 26, Confidence: 0.9, Method: "test"},
	}

	result, err := NewEngine().Anonymize(text, entities)
	require.NoError(t, err)

	assert.Equal(t, "[PERSON_1] met [PERSON_2]. Later [PERSON_1] left.", result.AnonymizedText)
	assert.Len(t, result.Mappings, 2, "repeated value must not create a second mapping")
}

func TestAnonymizeOverlapKeepsHigherConfidence(t *testing.T) {
	text := "ID 123-45-6789 on file"
	entities := []detector.Entity{
		entityAt(text, "123-45-6789", detector.TypeSSN, 0.9),
		entityAt(text, "123-45-6789", detector.TypePhone, 0.6),
	}

	result, err := NewEngine().Anonymize(text, entities)
	require.NoError(t, err)

	assert.Equal(t, "ID [SSN_1] on file", result.AnonymizedText)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, detector.TypePhone, result.Dropped[0].Entity.Type)
	assert.Equal(t, detector.TypeSSN, result.Dropped[0].KeptBy.Type)
}

func TestAnonymizeRejectsInvalidSpans(t *testing.T) {
	tests := []struct {
		name   string
		entity detector.Entity
	}{
		{"negative start", detector.Entity{Type: "PERSON", Start: -1, End: 3}},
		{"end past text", detector.Entity{Type: "PERSON", Start: 0, End: 99}},
		{"inverted span", detector.Entity{Type: "PERSON", Start: 5, End: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine().Anonymize("short text", []detector.Entity{tt.entity})
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindDetectionInput))
		})
	}
}

func TestAnonymizeOutputIsLeakFree(t *testing.T) {
	text := "Contact jane.doe@corp.example and jane.doe@corp.example again"
	entities := []detector.Entity{
		{Type: detector.TypeEmail, Value: "jane.doe@corp.example", NormalizedValue: "jane.doe@corp.example", Start: 8, End: 29, Confidence: 1.0, Method: "test"},
		{Type: detector.TypeEmail, Value: "jane.doe@corp.example", NormalizedValue: "jane.doe@corp.example", Start: 34, End: 55, Confidence: 1.0, Method: "test"},
	}

	result, err := NewEngine().Anonymize(text, entities)
	require.NoError(t, err)

	for _, m := range result.Mappings {
		assert.NotContains(t, result.AnonymizedText, m.OriginalValue)
	}
}

func TestAnonymizeFailsClosedOnUndetectedDuplicate(t *testing.T) {
	// Second occurrence is not covered by any span, so the original value
	// survives substitution; the engine must refuse rather than leak.
	text := "Contact jane@corp.example and jane@corp.example again"
	entities := []detector.Entity{
		{Type: detector.TypeEmail, Value: "jane@corp.example", NormalizedValue: "jane@corp.example", Start: 8, End: 25, Confidence: 1.0, Method: "test"},
	}

	_, err := NewEngine().Anonymize(text, entities)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDetectionInput))
}

func TestReconstructRoundTrip(t *testing.T) {
	text := "Call John Smith at 555-123-4567 or john@x.com"
	entities := []detector.Entity{
		entityAt(text, "John Smith", detector.TypePerson, 0.95),
		entityAt(text, "555-123-4567", detector.TypePhone, 1.0),
		entityAt(text, "john@x.com", detector.TypeEmail, 1.0),
	}

	result, err := NewEngine().Anonymize(text, entities)
	require.NoError(t, err)

	originals := make(map[string]string, len(result.Mappings))
	for _, m := range result.Mappings {
		originals[m.Placeholder] = m.OriginalValue
	}
	assert.Equal(t, text, Reconstruct(result.AnonymizedText, originals))
}

func TestReconstructLongestPlaceholderFirst(t *testing.T) {
	originals := map[string]string{
		"[PERSON_1]":  "Alice",
		"[PERSON_12]": "Mallory",
	}
	out := Reconstruct("[PERSON_12] and [PERSON_1]", originals)
	assert.Equal(t, "Mallory and Alice", out)
}
