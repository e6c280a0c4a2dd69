package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/buildbot/internal/models"
	"go.uber.org/zap"
)

func writeCatalogFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCategory(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "cpus.json", `[
		{"id": "cpu-1", "name": "Ryzen 5 7600", "price": 229.99, "category": "cpu", "specs": {"socket": "AM5", "cores": 6}},
		{"id": "cpu-2", "name": "Core i5-14600K", "price": 319.99, "category": "cpu", "specs": {"socket": "LGA1700", "cores": 14}}
	]`)
	parts := LoadCategory(dir, "cpu", zap.NewNop())
	if len(parts) != 2 {
		t.Fatalf("parts: got %d, want 2", len(parts))
	}
	if parts[0].ID != "cpu-1" || parts[0].Price != 229.99 {
		t.Errorf("unexpected first part: %+v", parts[0])
	}
	if parts[1].Spec("socket", "") != "LGA1700" {
		t.Errorf("socket spec: got %q", parts[1].Spec("socket", ""))
	}
}

func TestLoadCategory_missingFileIsEmpty(t *testing.T) {
	parts := LoadCategory(t.TempDir(), "gpu", zap.NewNop())
	if parts != nil {
		t.Errorf("missing file should yield nil, got %v", parts)
	}
}

func TestLoadCategory_malformedFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "gpus.json", `{not json`)
	parts := LoadCategory(dir, "gpu", zap.NewNop())
	if parts != nil {
		t.Errorf("malformed file should yield nil, got %v", parts)
	}
}

func TestLoadAll_partialCatalog(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "cpus.json", `[{"id": "cpu-1", "name": "A", "price": 100, "category": "cpu"}]`)
	writeCatalogFile(t, dir, "gpus.json", `broken`)
	snap := LoadAll(dir, zap.NewNop())
	if snap.Len() != 1 {
		t.Errorf("total parts: got %d, want 1", snap.Len())
	}
	if got := len(snap.Category("gpu")); got != 0 {
		t.Errorf("gpus: got %d, want 0", got)
	}
}

func TestSnapshotCategory_normalization(t *testing.T) {
	snap := NewSnapshot(map[string][]models.Part{
		"cpus": {{ID: "cpu-1", Category: "cpu"}},
	})
	for _, name := range []string{"cpu", "cpus", "CPU", " Cpu "} {
		if got := len(snap.Category(name)); got != 1 {
			t.Errorf("Category(%q): got %d parts, want 1", name, got)
		}
	}
	if snap.Category("gpu") != nil {
		t.Error("unknown category should return nil")
	}
	if snap.Category("") != nil {
		t.Error("empty category should return nil")
	}
}

func TestSnapshotCategory_literalFallback(t *testing.T) {
	// A collection keyed by a name that does not follow the +s rule is still
	// reachable by its literal key.
	snap := NewSnapshot(map[string][]models.Part{
		"storage": {{ID: "ssd-1", Category: "storage"}},
	})
	if got := len(snap.Category("storage")); got != 1 {
		t.Errorf("literal fallback: got %d parts, want 1", got)
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot(map[string][]models.Part{
		"rams": {
			{ID: "ram-1", Name: "Kit A", Price: 89.99, Category: "ram"},
			{ID: "ram-2", Name: "Kit B", Price: 129.99, Category: "ram"},
		},
	})
	part, ok := snap.Lookup("ram", "ram-2")
	if !ok {
		t.Fatal("lookup should find ram-2")
	}
	if part.Name != "Kit B" {
		t.Errorf("name: got %q", part.Name)
	}
	if _, ok := snap.Lookup("ram", "ram-99"); ok {
		t.Error("lookup should miss unknown id")
	}
	if _, ok := snap.Lookup("gpu", "ram-1"); ok {
		t.Error("lookup should miss wrong category")
	}
}

func TestSnapshotCounts(t *testing.T) {
	snap := NewSnapshot(map[string][]models.Part{
		"cpus": {{ID: "cpu-1"}},
		"gpus": {{ID: "gpu-1"}, {ID: "gpu-2"}},
	})
	counts := snap.Counts()
	if counts["cpu"] != 1 || counts["gpu"] != 2 || counts["psu"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if snap.Len() != 3 {
		t.Errorf("len: got %d, want 3", snap.Len())
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "cpus.json", `[{"id": "cpu-1", "name": "A", "price": 100, "category": "cpu"}]`)
	store := NewStore(dir, zap.NewNop())
	if store.Snapshot().Len() != 1 {
		t.Fatalf("initial parts: got %d, want 1", store.Snapshot().Len())
	}

	before := store.Snapshot()
	writeCatalogFile(t, dir, "cpus.json", `[
		{"id": "cpu-1", "name": "A", "price": 100, "category": "cpu"},
		{"id": "cpu-2", "name": "B", "price": 200, "category": "cpu"}
	]`)
	after := store.Reload()
	if after.Len() != 2 {
		t.Errorf("reloaded parts: got %d, want 2", after.Len())
	}
	// The old snapshot is immutable: readers holding it keep seeing one part.
	if before.Len() != 1 {
		t.Errorf("old snapshot changed: got %d parts", before.Len())
	}
	if store.Snapshot().Len() != 2 {
		t.Errorf("store snapshot: got %d parts", store.Snapshot().Len())
	}
}
