package prompt

import (
	"strings"
	"testing"

	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/models"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(map[string][]models.Part{
		"cpus": {
			{ID: "cpu-1", Name: "Ryzen 5 7600", Price: 229.99, Category: "cpu",
				Specs: map[string]any{"socket": "AM5", "cores": float64(6)}},
		},
		"motherboards": {
			{ID: "mb-1", Name: "B650 Board", Price: 159.99, Category: "motherboard",
				Specs: map[string]any{"socket": "AM5", "formFactor": "ATX", "memoryType": "DDR5", "memorySlots": float64(4)}},
		},
		"rams": {
			{ID: "ram-1", Name: "16GB DDR5", Price: 54.99, Category: "ram",
				Specs: map[string]any{"capacity": "16GB", "type": "DDR5", "speed": "6000MHz"}},
		},
	})
}

func TestSummary(t *testing.T) {
	summary := Summary(testSnapshot())
	for _, want := range []string{
		"CPUs:",
		"Motherboards:",
		"RAMs:",
		"- ID: cpu-1, Name: Ryzen 5 7600, Price: 229.99, Category: cpu, Socket: AM5, Cores: 6",
		"Memory Type: DDR5, Memory Slots: 4",
		"Sticks: 1",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q\n%s", want, summary)
		}
	}
	// Empty categories are omitted entirely.
	if strings.Contains(summary, "GPUs:") {
		t.Error("summary should omit empty categories")
	}
}

func TestSummary_deterministic(t *testing.T) {
	snap := testSnapshot()
	first := Summary(snap)
	for i := 0; i < 5; i++ {
		if got := Summary(snap); got != first {
			t.Fatal("summary output changed between renders")
		}
	}
}

func TestSummary_categoryOrder(t *testing.T) {
	summary := Summary(testSnapshot())
	cpuAt := strings.Index(summary, "CPUs:")
	mbAt := strings.Index(summary, "Motherboards:")
	ramAt := strings.Index(summary, "RAMs:")
	if !(cpuAt < mbAt && mbAt < ramAt) {
		t.Errorf("category order wrong: cpu=%d mb=%d ram=%d", cpuAt, mbAt, ramAt)
	}
}

func TestNewBuild(t *testing.T) {
	system := NewBuild("CPUs:\n- ID: cpu-1\n", 1500)
	for _, want := range []string{
		"MAX BUDGET: $1500.00",
		"AVAILABLE COMPONENTS:",
		"- ID: cpu-1",
		`"error": "Budget Exceeded"`,
		`"requestedBudget": 1500.00`,
		"1x CPU, 1x Motherboard, 1x GPU, 1x Storage, 1x PSU, 1x Case, 1x Cooler",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("new-build prompt missing %q", want)
		}
	}
}

func TestUpgrade(t *testing.T) {
	system := Upgrade("GPUs:\n- ID: gpu-1\n")
	for _, want := range []string{
		"AVAILABLE COMPONENTS (for NEW parts):",
		"- ID: gpu-1",
		`"status": "existing"`,
		"alternativeParts",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("upgrade prompt missing %q", want)
		}
	}
}

func TestNewBuildMessage(t *testing.T) {
	got := NewBuildMessage("gaming pc under $1500")
	if got != `USER REQUEST: "gaming pc under $1500"` {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestUpgradeMessage(t *testing.T) {
	msg := UpgradeMessage(map[string]any{
		"gpuId":      "gpu-1",
		"cpuId":      "cpu-1",
		"storageIds": []any{"ssd-1", "hdd-1"},
	}, 800, "better fps in 1440p")
	for _, want := range []string{
		"cpu: cpu-1",
		"gpu: gpu-1",
		"storage: ssd-1, hdd-1",
		"Upgrade budget: $800.00",
		`Upgrade goals: "better fps in 1440p"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("upgrade message missing %q\n%s", want, msg)
		}
	}
	// Keys render sorted, so the message is stable across map iterations.
	if strings.Index(msg, "cpu:") > strings.Index(msg, "gpu:") {
		t.Error("existing components should be sorted by key")
	}
}

func TestRegexExtractor(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected float64
		found    bool
	}{
		{"dollar amount", "gaming pc under $1500", 1500, true},
		{"bare number", "build me something for 2000 total", 2000, true},
		{"first of two amounts wins", "spend $800, maybe $900", 800, true},
		{"two digits ignored", "a pc for my 12 year old", 0, false},
		{"no number", "a quiet workstation", 0, false},
		{"three digits", "budget of 850", 850, true},
	}
	var ex RegexExtractor
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ex.Extract(tt.message)
			if ok != tt.found || got != tt.expected {
				t.Errorf("Extract(%q) = (%v, %v), want (%v, %v)", tt.message, got, ok, tt.expected, tt.found)
			}
		})
	}
}
