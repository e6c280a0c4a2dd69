// Package models defines core data structures for parts, build requests, and
// validated build results.
package models

import (
	"fmt"
	"strings"
)

// Categories is the fixed set of part categories, in the order they are
// summarized for the model and reported in status output.
var Categories = []string{"cpu", "gpu", "motherboard", "ram", "storage", "psu", "case", "cooler"}

// Part is a single catalog entry. Parts are immutable once loaded; the
// reconciler copies fields out rather than handing catalog records to callers.
type Part struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Price    float64        `json:"price"`
	Category string         `json:"category"`
	Specs    map[string]any `json:"specs,omitempty"`
}

// Spec returns the named spec value rendered as a string, or fallback when
// the key is absent. Spec values arrive from JSON as strings or numbers.
func (p *Part) Spec(key, fallback string) string {
	v, ok := p.Specs[key]
	if !ok || v == nil {
		return fallback
	}
	switch x := v.(type) {
	case string:
		if x == "" {
			return fallback
		}
		return x
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Plural returns the catalog collection key for a category, e.g. "cpu" -> "cpus".
// Keys already ending in "s" are returned unchanged.
func Plural(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return ""
	}
	if strings.HasSuffix(c, "s") {
		return c
	}
	return c + "s"
}
