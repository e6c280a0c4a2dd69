package catalog

import (
	"strings"

	"github.com/hyperjump/buildbot/internal/models"
)

// Snapshot is an immutable view of the catalog at load time. It is shared
// across requests without locking; reloads build a new Snapshot rather than
// mutating an existing one.
type Snapshot struct {
	collections map[string][]models.Part
}

// NewSnapshot builds a snapshot from collections keyed by plural category.
// Used by tests and by the loader.
func NewSnapshot(collections map[string][]models.Part) *Snapshot {
	if collections == nil {
		collections = map[string][]models.Part{}
	}
	return &Snapshot{collections: collections}
}

// Category returns the parts of one category. The name is normalized:
// lowercased, pluralized when singular, with a fallback to the literal
// lowercase string for keys that do not follow the singular/plural rule.
func (s *Snapshot) Category(name string) []models.Part {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}
	if parts, ok := s.collections[models.Plural(key)]; ok {
		return parts
	}
	return s.collections[key]
}

// Lookup resolves a part by category and id. The category goes through the
// same normalization as Category. This lookup is the only thing standing
// between a hallucinated part reference and the response.
func (s *Snapshot) Lookup(category, id string) (models.Part, bool) {
	parts := s.Category(category)
	for i := range parts {
		if parts[i].ID == id {
			return parts[i], true
		}
	}
	return models.Part{}, false
}

// Parts returns all parts across categories in summary order.
func (s *Snapshot) Parts() []models.Part {
	var all []models.Part
	for _, category := range models.Categories {
		all = append(all, s.collections[models.Plural(category)]...)
	}
	return all
}

// Counts returns the number of parts per category (singular keys), in no
// particular map order.
func (s *Snapshot) Counts() map[string]int {
	counts := make(map[string]int, len(models.Categories))
	for _, category := range models.Categories {
		counts[category] = len(s.collections[models.Plural(category)])
	}
	return counts
}

// Len returns the total number of parts in the snapshot.
func (s *Snapshot) Len() int {
	n := 0
	for _, parts := range s.collections {
		n += len(parts)
	}
	return n
}
