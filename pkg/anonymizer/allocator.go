package anonymizer

import (
	"fmt"

	"pii-anonymizer-be/pkg/detector"
)

// Allocator assigns stable placeholders within a single session. The same
// (entity type, normalized value) pair always yields the same placeholder;
// distinct values of one type get numeric suffixes in first-seen order.
//
// An Allocator is scoped to one anonymization run and is not safe for
// concurrent use; the upload pipeline is single-threaded per session.
type Allocator struct {
	assigned map[allocKey]string
	counters map[string]int
}

type allocKey struct {
	entityType      string
	normalizedValue string
}

func NewAllocator() *Allocator {
	return &Allocator{
		assigned: make(map[allocKey]string),
		counters: make(map[string]int),
	}
}

// Allocate returns the placeholder for the given entity, creating one on
// first sight. The normalized value is re-normalized defensively so callers
// passing raw values still collapse trivial variants.
func (a *Allocator) Allocate(entityType, normalizedValue string) string {
	key := allocKey{entityType, detector.Normalize(normalizedValue)}
	if ph, ok := a.assigned[key]; ok {
		return ph
	}

	a.counters[entityType]++
	ph := fmt.Sprintf("[%s_%d]", entityType, a.counters[entityType])
	a.assigned[key] = ph
	return ph
}

// Count reports how many distinct placeholders exist for a type.
func (a *Allocator) Count(entityType string) int {
	return a.counters[entityType]
}
