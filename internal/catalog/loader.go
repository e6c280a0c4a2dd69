// Package catalog loads the read-only part catalog from per-category JSON
// files and exposes it as an immutable snapshot.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hyperjump/buildbot/internal/models"
	"go.uber.org/zap"
)

// LoadCategory reads one category's parts from <dir>/<plural>.json.
// Fail-soft by contract: a missing or corrupt file yields an empty slice and
// a warning, never an error. A partial catalog degrades the model's choices,
// not the request.
func LoadCategory(dir, category string, logger *zap.Logger) []models.Part {
	path := filepath.Join(dir, models.Plural(category)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("catalog file unreadable", zap.String("path", path), zap.Error(err))
		return nil
	}
	var parts []models.Part
	if err := json.Unmarshal(data, &parts); err != nil {
		logger.Warn("catalog file malformed", zap.String("path", path), zap.Error(err))
		return nil
	}
	return parts
}

// LoadAll reads every known category from dir into a snapshot.
func LoadAll(dir string, logger *zap.Logger) *Snapshot {
	collections := make(map[string][]models.Part, len(models.Categories))
	for _, category := range models.Categories {
		collections[models.Plural(category)] = LoadCategory(dir, category, logger)
	}
	return &Snapshot{collections: collections}
}
