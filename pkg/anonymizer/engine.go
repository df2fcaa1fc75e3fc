package anonymizer

import (
	"fmt"
	"sort"
	"strings"

	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/detector"
)

// Mapping is one placeholder assignment produced by an anonymization run.
// OriginalValue is plaintext here; the service encrypts it before anything
// is persisted.
type Mapping struct {
	EntityType      string
	Placeholder     string
	OriginalValue   string
	NormalizedValue string
	Confidence      float64
	Method          string
}

// DroppedEntity records an overlap conflict resolved against this entity.
type DroppedEntity struct {
	Entity detector.Entity
	KeptBy detector.Entity
}

// Result of a full anonymization pass.
type Result struct {
	AnonymizedText string
	Mappings       []Mapping
	Dropped        []DroppedEntity
}

// Engine turns raw text plus detector output into anonymized text and a
// mapping table. It is stateless; each run uses a fresh Allocator.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Anonymize substitutes every detected span with its placeholder.
//
// Spans are validated against the original text, overlap conflicts are
// resolved by confidence (higher wins, loser reported in Dropped), and
// substitution is applied over immutable offsets end-to-start so earlier
// replacements never shift or re-match later ones.
func (e *Engine) Anonymize(rawText string, entities []detector.Entity) (*Result, error) {
	for _, ent := range entities {
		if ent.Start < 0 || ent.End > len(rawText) || ent.Start >= ent.End {
			return nil, apperrors.New(apperrors.KindDetectionInput,
				fmt.Sprintf("entity %s has invalid span [%d,%d) for text of length %d",
					ent.Type, ent.Start, ent.End, len(rawText)))
		}
	}

	kept, dropped := resolveOverlaps(entities)

	// First-seen document order drives counter assignment.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Start < kept[j].Start
	})

	alloc := NewAllocator()
	mappings := make([]Mapping, 0, len(kept))
	seen := make(map[string]bool)
	for _, ent := range kept {
		normalized := ent.NormalizedValue
		if normalized == "" {
			normalized = detector.Normalize(ent.Value)
		}
		ph := alloc.Allocate(ent.Type, normalized)

		mapKey := ent.Type + "\x00" + normalized
		if !seen[mapKey] {
			seen[mapKey] = true
			mappings = append(mappings, Mapping{
				EntityType:      ent.Type,
				Placeholder:     ph,
				OriginalValue:   rawText[ent.Start:ent.End],
				NormalizedValue: normalized,
				Confidence:      ent.Confidence,
				Method:          ent.Method,
			})
		}
	}

	// Substitute end-to-start over the original offsets.
	anonymized := rawText
	for i := len(kept) - 1; i >= 0; i-- {
		ent := kept[i]
		normalized := ent.NormalizedValue
		if normalized == "" {
			normalized = detector.Normalize(ent.Value)
		}
		ph := alloc.Allocate(ent.Type, normalized)
		anonymized = anonymized[:ent.Start] + ph + anonymized[ent.End:]
	}

	if err := verifyLeakFree(anonymized, mappings); err != nil {
		return nil, err
	}

	return &Result{
		AnonymizedText: anonymized,
		Mappings:       mappings,
		Dropped:        dropped,
	}, nil
}

// Reconstruct substitutes placeholders with their original values,
// longest placeholder first so [PERSON_12] is never corrupted by [PERSON_1].
func Reconstruct(anonymizedText string, originalByPlaceholder map[string]string) string {
	placeholders := make([]string, 0, len(originalByPlaceholder))
	for ph := range originalByPlaceholder {
		placeholders = append(placeholders, ph)
	}
	sort.Slice(placeholders, func(i, j int) bool {
		if len(placeholders[i]) != len(placeholders[j]) {
			return len(placeholders[i]) > len(placeholders[j])
		}
		return placeholders[i] < placeholders[j]
	})

	result := anonymizedText
	for _, ph := range placeholders {
		result = strings.ReplaceAll(result, ph, originalByPlaceholder[ph])
	}
	return result
}

// resolveOverlaps keeps the higher-confidence entity of any overlapping,
// unequal pair. Exact duplicate spans of the same type collapse silently.
func resolveOverlaps(entities []detector.Entity) (kept []detector.Entity, dropped []DroppedEntity) {
	// Highest confidence claims its span first; ties go to the earlier span
	// for determinism.
	sorted := make([]detector.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].Start < sorted[j].Start
	})

	for _, ent := range sorted {
		conflict := false
		for _, k := range kept {
			if ent.Start < k.End && ent.End > k.Start {
				if ent.Start == k.Start && ent.End == k.End && ent.Type == k.Type {
					// same span, same type: duplicate detection, not a conflict
					conflict = true
					break
				}
				dropped = append(dropped, DroppedEntity{Entity: ent, KeptBy: k})
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, ent)
		}
	}
	return kept, dropped
}

// verifyLeakFree enforces the core invariant: no original value survives in
// the anonymized text.
func verifyLeakFree(anonymized string, mappings []Mapping) error {
	for _, m := range mappings {
		if m.OriginalValue == "" {
			continue
		}
		if strings.Contains(anonymized, m.OriginalValue) {
			return apperrors.New(apperrors.KindDetectionInput,
				fmt.Sprintf("anonymized text still contains a detected %s value", m.EntityType))
		}
	}
	return nil
}
