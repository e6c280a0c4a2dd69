package search

import (
	"context"
	"testing"

	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/models"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(map[string][]models.Part{
		"cpus": {
			{ID: "cpu-1", Name: "AMD Ryzen 5 7600", Price: 229.99, Category: "cpu",
				Specs: map[string]any{"socket": "AM5", "cores": 6}},
			{ID: "cpu-2", Name: "Intel Core i5-14600K", Price: 319.99, Category: "cpu",
				Specs: map[string]any{"socket": "LGA1700", "cores": 14}},
		},
		"motherboards": {
			{ID: "mb-1", Name: "MSI B650 Tomahawk", Price: 219.99, Category: "motherboard",
				Specs: map[string]any{"socket": "AM5", "formFactor": "ATX"}},
		},
	})
}

func TestSearch_byName(t *testing.T) {
	idx, err := NewIndex(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	parts, err := idx.Search(context.Background(), "ryzen", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 || parts[0].ID != "cpu-1" {
		t.Errorf("unexpected results: %+v", parts)
	}
}

func TestSearch_bySpecValue(t *testing.T) {
	idx, err := NewIndex(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	parts, err := idx.Search(context.Background(), "AM5", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Errorf("AM5 should match the cpu and the motherboard: %+v", parts)
	}
}

func TestSearch_categoryFilter(t *testing.T) {
	idx, err := NewIndex(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	parts, err := idx.Search(context.Background(), "AM5", "motherboard", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 || parts[0].ID != "mb-1" {
		t.Errorf("unexpected results: %+v", parts)
	}
}

func TestSearch_limit(t *testing.T) {
	idx, err := NewIndex(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	parts, err := idx.Search(context.Background(), "AM5", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 {
		t.Errorf("limit not applied: got %d results", len(parts))
	}
}

func TestSearch_noMatch(t *testing.T) {
	idx, err := NewIndex(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	parts, err := idx.Search(context.Background(), "threadripper", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 0 {
		t.Errorf("expected no results, got %+v", parts)
	}
}

func TestRebuild(t *testing.T) {
	idx, err := NewIndex(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if idx.Size() != 3 {
		t.Fatalf("size: got %d, want 3", idx.Size())
	}

	smaller := catalog.NewSnapshot(map[string][]models.Part{
		"gpus": {{ID: "gpu-1", Name: "RTX 4060", Price: 299.99, Category: "gpu"}},
	})
	if err := idx.Rebuild(smaller); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 1 {
		t.Errorf("size after rebuild: got %d, want 1", idx.Size())
	}
	parts, err := idx.Search(context.Background(), "ryzen", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 0 {
		t.Errorf("old parts should be gone after rebuild: %+v", parts)
	}
}
