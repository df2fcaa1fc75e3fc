package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(entities []Entity) []string {
	types := make([]string, 0, len(entities))
	for _, e := range entities {
		types = append(types, e.Type)
	}
	return types
}

func TestRegexDetectorPatterns(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTypes []string
	}{
		{"email", "reach me at john.doe+dev@example.co.uk thanks", []string{TypeEmail}},
		{"phone", "call 555-123-4567 today", []string{TypePhone}},
		{"phone with country code", "call +1-555-123-4567 today", []string{TypePhone}},
		{"ssn claims before phone", "SSN: 123-45-6789", []string{TypeSSN}},
		{"credit card", "card 4111-1111-1111-1111 expires soon", []string{TypeCreditCard}},
		{"url", "see https://example.com/path?q=1 for details", []string{TypeURL}},
		{"ip address", "host 192.168.1.100 is down", []string{TypeIPAddress}},
		{"date", "due 12/31/2025 at noon", []string{TypeDate}},
		{"nothing", "no structured identifiers here", []string{}},
	}

	d := NewRegexDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			assert.Equal(t, tt.wantTypes, typesOf(got))
		})
	}
}

func TestRegexDetectorSpansAndConfidence(t *testing.T) {
	text := "email john@x.com now"
	entities := NewRegexDetector().Detect(text)
	require.Len(t, entities, 1)

	e := entities[0]
	assert.Equal(t, "john@x.com", text[e.Start:e.End])
	assert.Equal(t, "john@x.com", e.Value)
	assert.Equal(t, 1.0, e.Confidence)
	assert.Equal(t, "regex", e.Method)
}

func TestRegexDetectorMultipleSortedByPosition(t *testing.T) {
	text := "ip 10.0.0.1 then mail a@b.io done"
	entities := NewRegexDetector().Detect(text)
	require.Len(t, entities, 2)
	assert.Less(t, entities[0].Start, entities[1].Start)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "john smith", Normalize("  John SMITH "))
}
