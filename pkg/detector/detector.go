package detector

import (
	"regexp"
	"sort"
	"strings"
)

// Entity is one detected PII span. Offsets are byte offsets into the
// original text. NormalizedValue is the detector's canonical form of the
// span (the allocator trusts it as the identity key).
type Entity struct {
	Type            string
	Value           string
	NormalizedValue string
	Start           int
	End             int
	Confidence      float64
	Method          string
}

// PII entity types shared across the system.
const (
	TypePerson     = "PERSON"
	TypeEmail      = "EMAIL"
	TypePhone      = "PHONE"
	TypeSSN        = "SSN"
	TypeCreditCard = "CREDIT_CARD"
	TypeAddress    = "ADDRESS"
	TypeDate       = "DATE"
	TypeOrg        = "ORG"
	TypeURL        = "URL"
	TypeIPAddress  = "IP_ADDRESS"
)

// Detector is the detection collaborator boundary. Model-based NER
// implementations plug in here; the service only depends on this contract.
type Detector interface {
	Detect(text string) []Entity
}

// RegexDetector matches structured PII with fixed patterns. Pattern matches
// carry confidence 1.0. Named-entity types (PERSON, ORG, ADDRESS) are out of
// its reach and come from an external model-based Detector.
type RegexDetector struct {
	patterns []typedPattern
}

type typedPattern struct {
	entityType string
	re         *regexp.Regexp
}

func NewRegexDetector() *RegexDetector {
	return &RegexDetector{
		patterns: []typedPattern{
			{TypeEmail, regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
			{TypeSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
			{TypeCreditCard, regexp.MustCompile(`\b(?:\d{4}[-\s]){3}\d{4}\b`)},
			{TypePhone, regexp.MustCompile(`\b(?:\+?1[-.]?)?\(?\d{3}\)?[-.]?\d{3}[-.]?\d{4}\b`)},
			{TypeURL, regexp.MustCompile(`https?://[A-Za-z0-9@:%._+~#=-]{1,256}\.[A-Za-z0-9()]{1,6}\b[-A-Za-z0-9()@:%_+.~#?&/=]*`)},
			{TypeIPAddress, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
			{TypeDate, regexp.MustCompile(`\b(?:0[1-9]|1[0-2])[/-](?:0[1-9]|[12]\d|3[01])[/-](?:19|20)\d{2}\b`)},
		},
	}
}

func (d *RegexDetector) Detect(text string) []Entity {
	var entities []Entity
	claimed := make([][2]int, 0)

	for _, p := range d.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			if overlapsAny(loc[0], loc[1], claimed) {
				continue
			}
			claimed = append(claimed, [2]int{loc[0], loc[1]})
			value := text[loc[0]:loc[1]]
			entities = append(entities, Entity{
				Type:            p.entityType,
				Value:           value,
				NormalizedValue: Normalize(value),
				Start:           loc[0],
				End:             loc[1],
				Confidence:      1.0,
				Method:          "regex",
			})
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	return entities
}

// Normalize produces the identity key used for placeholder reuse: trimmed
// and case-folded, nothing fuzzier.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func overlapsAny(start, end int, claimed [][2]int) bool {
	for _, c := range claimed {
		if start < c[1] && end > c[0] {
			return true
		}
	}
	return false
}
