// Package prompt renders the system instructions sent to the model: a
// deterministic summary of available parts plus per-kind task rules.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/models"
	"github.com/hyperjump/buildbot/pkg/utils"
)

// categorySummary pairs a heading with the spec subset the model needs for
// compatibility reasoning in that category.
type categorySummary struct {
	heading  string
	category string
	keySpecs func(p *models.Part) string
}

var summaries = []categorySummary{
	{"CPUs", "cpu", func(p *models.Part) string {
		return fmt.Sprintf("Socket: %s, Cores: %s", p.Spec("socket", "N/A"), p.Spec("cores", "N/A"))
	}},
	{"GPUs", "gpu", func(p *models.Part) string {
		return fmt.Sprintf("Memory: %s, TDP: %s", p.Spec("memory", "N/A"), p.Spec("tdp", "N/A"))
	}},
	{"Motherboards", "motherboard", func(p *models.Part) string {
		return fmt.Sprintf("Socket: %s, Form Factor: %s, Memory Type: %s, Memory Slots: %s",
			p.Spec("socket", "N/A"), p.Spec("formFactor", "N/A"), p.Spec("memoryType", "N/A"), p.Spec("memorySlots", "N/A"))
	}},
	{"RAMs", "ram", func(p *models.Part) string {
		return fmt.Sprintf("Capacity: %s (per stick), Type: %s, Speed: %s, Sticks: %s",
			p.Spec("capacity", "N/A"), p.Spec("type", "N/A"), p.Spec("speed", "N/A"), p.Spec("sticksInKit", "1"))
	}},
	{"Storage", "storage", func(p *models.Part) string {
		return fmt.Sprintf("Type: %s, Capacity: %s, Read Speed: %s",
			p.Spec("type", "N/A"), p.Spec("capacity", "N/A"), p.Spec("readSpeed", "N/A"))
	}},
	{"PSUs", "psu", func(p *models.Part) string {
		return fmt.Sprintf("Wattage: %s, Efficiency: %s", p.Spec("wattage", "N/A"), p.Spec("efficiencyRating", "N/A"))
	}},
	{"Cases", "case", func(p *models.Part) string {
		return fmt.Sprintf("Type: %s, Max GPU Length: %s", p.Spec("type", "N/A"), p.Spec("maxGPULength", "N/A"))
	}},
	{"Coolers", "cooler", func(p *models.Part) string {
		return fmt.Sprintf("Type: %s, Supported Sockets: %s", p.Spec("type", "N/A"), p.Spec("supportedSockets", "N/A"))
	}},
}

// Summary renders one line per part, grouped by category in a fixed order,
// with prices 2-decimal fixed. Deterministic for a given snapshot.
func Summary(snap *catalog.Snapshot) string {
	var b strings.Builder
	for _, cs := range summaries {
		parts := snap.Category(cs.category)
		if len(parts) == 0 {
			continue
		}
		b.WriteString(cs.heading)
		b.WriteString(":\n")
		for i := range parts {
			p := &parts[i]
			fmt.Fprintf(&b, "- ID: %s, Name: %s, Price: %s, Category: %s, %s\n",
				p.ID, p.Name, utils.FormatPrice(p.Price), p.Category, cs.keySpecs(p))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// NewBuild renders the system instructions for a from-scratch build under a
// strict budget. The output-shape rules exist because the extractor accepts
// exactly one JSON object, fenced or bare, and nothing else.
func NewBuild(summary string, budget float64) string {
	bs := utils.FormatPrice(budget)
	var b strings.Builder
	b.WriteString("You are BuildBot, an expert at assembling complete PC builds under a strict budget.\n")
	fmt.Fprintf(&b, "MAX BUDGET: $%s\n", bs)
	fmt.Fprintf(&b, "You may use only the components listed below, and under no circumstances may your total exceed $%s.\n", bs)
	b.WriteString("Always output one single, valid JSON object. No Markdown, no extra commentary, no omissions.\n\n")
	b.WriteString("================================================================================\n")
	b.WriteString("AVAILABLE COMPONENTS:\n")
	b.WriteString(summary)
	b.WriteString("================================================================================\n\n")
	b.WriteString("RULES (the build must follow ALL of these):\n")
	b.WriteString("1. Budget Enforcement\n")
	fmt.Fprintf(&b, "   - The sum of all part prices must be <= $%s.\n", bs)
	fmt.Fprintf(&b, "   - If you cannot find a valid combination <= $%s, return exactly:\n", bs)
	b.WriteString("     ```json\n")
	fmt.Fprintf(&b, "     { \"error\": \"Budget Exceeded\", \"requestedBudget\": %s, \"minimumRequired\": <the smallest total you could not beat> }\n", bs)
	b.WriteString("     ```\n")
	b.WriteString("2. Parts Required\n")
	b.WriteString("   - 1x CPU, 1x Motherboard, 1x GPU, 1x Storage, 1x PSU, 1x Case, 1x Cooler.\n")
	b.WriteString("   - RAM: if the motherboard has 2 or more slots, pick exactly 2 identical sticks; otherwise 1. Never exceed the slot count.\n")
	b.WriteString("3. Compatibility (all must pass):\n")
	b.WriteString("   - CPU socket matches the motherboard socket.\n")
	b.WriteString("   - RAM type matches the motherboard memoryType.\n")
	b.WriteString("   - Motherboard form factor fits the case.\n")
	b.WriteString("4. Output\n")
	b.WriteString("   - One single, valid JSON object. No Markdown, no commentary, no extra fields.\n")
	b.WriteString("   - Shape must be exactly:\n")
	b.WriteString("     ```json\n")
	b.WriteString("     {\n")
	b.WriteString("       \"buildName\": \"string\",\n")
	b.WriteString("       \"reply\": \"string\",\n")
	b.WriteString("       \"parts\": [ { \"category\": \"cpu\", \"id\": \"...\", \"name\": \"...\", \"price\": 0.00 } ],\n")
	b.WriteString("       \"totalCost\": 0.00,\n")
	b.WriteString("       \"compatibilityNotes\": [ \"note1\" ],\n")
	b.WriteString("       \"deepLink\": \"/build?parts=ID1,ID2\"\n")
	b.WriteString("     }\n")
	b.WriteString("     ```\n")
	return b.String()
}

// Upgrade renders the system instructions for upgrading an existing rig.
// The budget ceiling applies only to parts with status "new".
func Upgrade(summary string) string {
	var b strings.Builder
	b.WriteString("You are BuildBot, an AI agent specialized in recommending upgrades for a user's EXISTING PC. ")
	b.WriteString("You will be given the user's current components and upgrade budget. ")
	b.WriteString("Base your suggestions for NEW parts only on the provided AVAILABLE COMPONENTS list.\n\n")
	b.WriteString("================================================================================\n")
	b.WriteString("AVAILABLE COMPONENTS (for NEW parts):\n")
	b.WriteString(summary)
	b.WriteString("================================================================================\n\n")
	b.WriteString("THE USER'S CURRENT SETUP AND GOALS WILL BE PROVIDED IN THEIR MESSAGE.\n\n")
	b.WriteString("YOUR TASK (FOR AN UPGRADE):\n")
	b.WriteString("1. Parse Input: identify existing components, the upgrade budget (for NEW parts), and the upgrade goals.\n")
	b.WriteString("2. Plan Upgrade: decide which parts to KEEP (\"status\": \"existing\") and which to UPGRADE (\"status\": \"new\").\n")
	b.WriteString("3. Select New Components: for each upgraded part, pick a primary recommendation (selectedPart) and 1-2 alternatives (alternativeParts).\n")
	b.WriteString("4. Compatibility: all NEW parts must be compatible with the KEPT existing parts and with each other.\n")
	b.WriteString("5. Budget: totalCost (sum of prices for \"new\" parts only) MUST be <= the user's upgrade budget.\n")
	b.WriteString("6. Output Format (strict, one JSON object, nothing else):\n")
	b.WriteString("   {\n")
	b.WriteString("     \"reply\": \"string\", \"buildName\": \"string\",\n")
	b.WriteString("     \"parts\": [\n")
	b.WriteString("       { \"category\": \"gpu\", \"status\": \"new\", \"selectedPart\": { \"id\": \"...\", \"category\": \"gpu\" }, \"alternativeParts\": [ ] },\n")
	b.WriteString("       { \"category\": \"cpu\", \"status\": \"existing\", \"selectedPart\": { \"id\": \"...\", \"category\": \"cpu\" }, \"alternativeParts\": [] }\n")
	b.WriteString("     ],\n")
	b.WriteString("     \"totalCost\": 0.00,\n")
	b.WriteString("     \"compatibilityNotes\": [ \"string\" ],\n")
	b.WriteString("     \"deepLink\": \"string\"\n")
	b.WriteString("   }\n")
	b.WriteString("   The deepLink must include the IDs of ALL selectedParts, existing and new.\n")
	return b.String()
}

// NewBuildMessage renders the user turn for a new build.
func NewBuildMessage(query string) string {
	return fmt.Sprintf("USER REQUEST: %q", query)
}

// UpgradeMessage renders the user turn for an upgrade: the current parts
// (one "category: id" line each, with trailing Id/Ids key suffixes
// stripped), the budget, and the stated goals.
func UpgradeMessage(existing map[string]any, budget float64, goals string) string {
	keys := make([]string, 0, len(existing))
	for k := range existing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		name := strings.TrimSuffix(strings.TrimSuffix(k, "Ids"), "Id")
		lines = append(lines, fmt.Sprintf("%s: %s", name, renderPartValue(existing[k])))
	}

	var b strings.Builder
	b.WriteString("INPUT (for an UPGRADE):\n")
	b.WriteString("Existing components:\n")
	b.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "\nUpgrade budget: $%s\n", utils.FormatPrice(budget))
	fmt.Fprintf(&b, "Upgrade goals: %q\n", goals)
	return b.String()
}

// renderPartValue renders a single id or a list of ids from the loosely
// typed currentUserParts mapping.
func renderPartValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(x, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
