// Package cli provides CLI output utilities for BuildBot.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/buildbot/internal/models"
	"github.com/hyperjump/buildbot/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteBuild writes a validated build to w in the given format.
func WriteBuild(w io.Writer, build *models.ValidatedBuild, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(build)
	}
	writeBuildText(w, build)
	return nil
}

func writeBuildText(w io.Writer, build *models.ValidatedBuild) {
	fmt.Fprintf(w, "\n%s\n", build.BuildName)
	fmt.Fprintf(w, "%s\n\n", build.Reply)
	for _, part := range build.Parts {
		marker := " "
		if part.Status == "existing" {
			marker = "="
		}
		fmt.Fprintf(w, "%s [%-11s] %-40s $%s\n",
			marker, part.Category, part.SelectedPart.Name, utils.FormatPrice(part.SelectedPart.Price))
		for _, alt := range part.AlternativeParts {
			fmt.Fprintf(w, "    alt: %s ($%s)\n", alt.Name, utils.FormatPrice(alt.Price))
		}
	}
	fmt.Fprintf(w, "\nTotal (new parts): $%s\n", utils.FormatPrice(build.TotalCost))
	if len(build.CompatibilityNotes) > 0 {
		fmt.Fprintln(w, "\nCompatibility notes:")
		for _, note := range build.CompatibilityNotes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}
	if len(build.DroppedParts) > 0 {
		fmt.Fprintln(w, "\nDropped references:")
		for _, d := range build.DroppedParts {
			fmt.Fprintf(w, "- %s/%s: %s\n", d.Category, d.ID, d.Reason)
		}
	}
	if build.DeepLink != "" {
		fmt.Fprintf(w, "\nLink: %s\n", build.DeepLink)
	}
}

// WriteParts writes a part list to w in the given format.
func WriteParts(w io.Writer, parts []models.Part, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(parts)
	}
	for _, p := range parts {
		fmt.Fprintf(w, "%-14s %-40s $%s\n", p.Category, p.Name, utils.FormatPrice(p.Price))
	}
	fmt.Fprintf(w, "\n%d parts\n", len(parts))
	return nil
}

// ParsePartFlags turns repeated "category=id" flag values into the
// currentUserParts mapping. Repeated categories accumulate into a list.
func ParsePartFlags(values []string) (map[string]any, error) {
	parts := make(map[string]any)
	for _, v := range values {
		key, id, ok := strings.Cut(v, "=")
		if !ok || key == "" || id == "" {
			return nil, fmt.Errorf("invalid part %q: expected category=id", v)
		}
		switch existing := parts[key].(type) {
		case nil:
			parts[key] = id
		case string:
			parts[key] = []string{existing, id}
		case []string:
			parts[key] = append(existing, id)
		}
	}
	return parts, nil
}
