// Package reconcile cross-checks a candidate build against the catalog and
// produces the validated response contract: authoritative prices, recomputed
// totals, deep link, and diagnostics for every reference that was dropped.
package reconcile

import (
	"strings"

	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/extract"
	"github.com/hyperjump/buildbot/internal/models"
	"github.com/hyperjump/buildbot/pkg/utils"
	"go.uber.org/zap"
)

// DefaultBuildName substitutes a missing model-declared build name.
const DefaultBuildName = "AI Suggestion"

const (
	// StatusNew marks a part being purchased; only these accumulate cost.
	StatusNew = "new"
	// StatusExisting marks a part kept from the user's current rig.
	StatusExisting = "existing"
)

// Reconciler validates candidate builds against catalog snapshots.
type Reconciler struct {
	logger *zap.Logger
}

// New creates a reconciler.
func New(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile turns a candidate into a ValidatedBuild. It returns the model's
// own InfeasibleError untouched (no catalog lookups happen in that case),
// an OutputError when required top-level fields are absent, and otherwise a
// build in which every part reference has been resolved against the catalog.
//
// Unresolvable references are dropped, not escalated: a partial, fully
// verified build beats failing the whole request over one bad reference.
// Each drop is logged and recorded in the result's DroppedParts.
func (r *Reconciler) Reconcile(cand *extract.Candidate, snap *catalog.Snapshot) (*models.ValidatedBuild, error) {
	if cand.Infeasible != nil {
		return nil, cand.Infeasible
	}
	if cand.Reply == "" || !cand.HasParts {
		return nil, &models.OutputError{Reason: "response missing critical fields"}
	}

	var (
		validated []models.ValidatedPart
		dropped   []models.DroppedRef
		linkIDs   []string
		total     float64
	)

	for _, item := range cand.Items {
		ref := item.Ref
		if ref.ID == "" || ref.Category == "" {
			dropped = append(dropped, models.DroppedRef{
				Category: firstNonEmpty(ref.Category, item.Category),
				ID:       ref.ID,
				Reason:   "missing id or category",
			})
			continue
		}

		part, ok := snap.Lookup(ref.Category, ref.ID)
		if !ok {
			r.logger.Warn("model referenced unknown part",
				zap.String("category", ref.Category), zap.String("id", ref.ID))
			dropped = append(dropped, models.DroppedRef{
				Category: ref.Category,
				ID:       ref.ID,
				Reason:   "not found in catalog",
			})
			continue
		}

		// Catalog fields only. The model's name and price are discarded even
		// when they happen to match.
		selected := models.PartRef{
			ID:       part.ID,
			Name:     part.Name,
			Price:    part.Price,
			Category: part.Category,
		}

		status := item.Status
		if status == "" {
			status = StatusNew
		}
		if status == StatusNew {
			total += selected.Price
		}

		// Order and duplicates preserved: two identical RAM sticks produce
		// two identical ids in the link.
		linkIDs = append(linkIDs, selected.ID)

		alternatives := []models.PartRef{}
		if status == StatusNew {
			for _, alt := range item.Alternatives {
				found, ok := snap.Lookup(alt.Category, alt.ID)
				if !ok {
					dropped = append(dropped, models.DroppedRef{
						Category: alt.Category,
						ID:       alt.ID,
						Reason:   "alternative not found in catalog",
					})
					continue
				}
				alternatives = append(alternatives, models.PartRef{
					ID:       found.ID,
					Name:     found.Name,
					Price:    found.Price,
					Category: found.Category,
				})
			}
		}

		validated = append(validated, models.ValidatedPart{
			Category:         firstNonEmpty(item.Category, selected.Category),
			Status:           status,
			SelectedPart:     selected,
			AlternativeParts: alternatives,
		})
	}

	notes := cand.Notes
	if notes == nil {
		notes = []string{}
	}
	buildName := cand.BuildName
	if buildName == "" {
		buildName = DefaultBuildName
	}

	return &models.ValidatedBuild{
		Reply:              cand.Reply,
		BuildName:          buildName,
		Parts:              validatedOrEmpty(validated),
		TotalCost:          utils.Round2(total),
		CompatibilityNotes: notes,
		DeepLink:           DeepLink(linkIDs),
		DroppedParts:       dropped,
		RequestType:        cand.Kind,
	}, nil
}

// DeepLink builds the UI link encoding the resolved part ids in encounter
// order, or an empty string when nothing resolved.
func DeepLink(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return "/build?parts=" + strings.Join(ids, ",")
}

func validatedOrEmpty(parts []models.ValidatedPart) []models.ValidatedPart {
	if parts == nil {
		return []models.ValidatedPart{}
	}
	return parts
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
