// Package search provides keyword search over the part catalog for browse
// flows, backed by an in-memory Bleve index rebuilt from each snapshot.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/models"
)

// partDoc is the indexed projection of a part. Specs are flattened into one
// text field so "AM5 motherboard" matches on spec values.
type partDoc struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Specs    string `json:"specs"`
}

// Index is a rebuildable in-memory part index. Reads and rebuilds may race
// with each other during a catalog reload, hence the RWMutex.
type Index struct {
	mu    sync.RWMutex
	idx   bleve.Index
	parts map[string]models.Part
}

// NewIndex builds an index over the snapshot's parts.
func NewIndex(snap *catalog.Snapshot) (*Index, error) {
	i := &Index{}
	if err := i.Rebuild(snap); err != nil {
		return nil, err
	}
	return i, nil
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so model names
	// like "Ryzen" match exactly as typed.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("specs", textFieldMapping)

	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	im.AddDocumentMapping("part", docMapping)
	im.DefaultType = "part"
	im.DefaultMapping = docMapping
	return im
}

// Rebuild replaces the index contents from a new snapshot, closing the old
// index once the swap is done.
func (i *Index) Rebuild(snap *catalog.Snapshot) error {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("failed to create part index: %w", err)
	}

	parts := make(map[string]models.Part)
	batch := idx.NewBatch()
	for _, p := range snap.Parts() {
		docID := strings.ToLower(p.Category) + "/" + p.ID
		if err := batch.Index(docID, partDoc{
			Name:     p.Name,
			Category: strings.ToLower(p.Category),
			Specs:    flattenSpecs(p.Specs),
		}); err != nil {
			_ = idx.Close()
			return fmt.Errorf("failed to index part %s: %w", p.ID, err)
		}
		parts[docID] = p
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("failed to commit part index batch: %w", err)
	}

	i.mu.Lock()
	old := i.idx
	i.idx = idx
	i.parts = parts
	i.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Search runs a match query over name and specs, optionally restricted to a
// category, and returns up to limit catalog parts ordered by score.
func (i *Index) Search(ctx context.Context, query, category string, limit int) ([]models.Part, error) {
	i.mu.RLock()
	idx := i.idx
	parts := i.parts
	i.mu.RUnlock()

	var q blevequery.Query = bleve.NewMatchQuery(query)
	if category != "" {
		term := bleve.NewTermQuery(strings.ToLower(strings.TrimSpace(category)))
		term.SetField("category")
		q = bleve.NewConjunctionQuery(q, term)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("part search failed: %w", err)
	}

	out := make([]models.Part, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if p, ok := parts[hit.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Size returns the number of indexed parts.
func (i *Index) Size() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, err := i.idx.DocCount()
	if err != nil {
		return 0
	}
	return n
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.idx == nil {
		return nil
	}
	err := i.idx.Close()
	i.idx = nil
	return err
}

// flattenSpecs renders spec keys and values as one searchable string with a
// stable key order.
func flattenSpecs(specs map[string]any) string {
	if len(specs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s %v ", k, specs[k])
	}
	return strings.TrimSpace(b.String())
}
