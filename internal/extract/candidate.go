package extract

import (
	"encoding/json"

	"github.com/hyperjump/buildbot/internal/models"
)

// PartRef is a model-declared part reference. Every field is untrusted; the
// reconciler uses ID and Category only as lookup keys and discards the rest.
type PartRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Item is one parts-list entry with its effective descriptor already chosen
// (nested selectedPart when present, the item's own fields otherwise).
type Item struct {
	Category     string
	Status       string
	Ref          PartRef
	Alternatives []PartRef
}

// Candidate is the parsed-but-unvalidated model output. Treated as
// adversarial until the reconciler has cross-checked every reference.
type Candidate struct {
	Kind       models.RequestKind
	Reply      string
	BuildName  string
	Notes      []string
	HasParts   bool
	Items      []Item
	Infeasible *models.InfeasibleError
}

// envelope is the loose top-level shape shared by both request kinds.
type envelope struct {
	Reply              string          `json:"reply"`
	BuildName          string          `json:"buildName"`
	Parts              json.RawMessage `json:"parts"`
	CompatibilityNotes []string        `json:"compatibilityNotes"`
	Error              string          `json:"error"`
	Budget             float64         `json:"budget"`
	RequestedBudget    float64         `json:"requestedBudget"`
	MinimumRequired    float64         `json:"minimumRequired"`
}

// newBuildItem is a flat parts-list entry. A nested selectedPart is
// tolerated and preferred, matching the historical handler's leniency.
type newBuildItem struct {
	PartRef
	Status       string   `json:"status"`
	SelectedPart *PartRef `json:"selectedPart"`
}

// upgradeItem is a status/selectedPart/alternatives tuple.
type upgradeItem struct {
	PartRef
	Status           string    `json:"status"`
	SelectedPart     *PartRef  `json:"selectedPart"`
	AlternativeParts []PartRef `json:"alternativeParts"`
}

// Decode extracts the JSON payload from raw model text and parses it into a
// Candidate for the given request kind. A top-level "error" key
// short-circuits into an Infeasible value with no part decoding. Returns a
// *models.OutputError when no parseable JSON object can be found.
func Decode(kind models.RequestKind, raw string) (*Candidate, error) {
	payload := []byte(Payload(raw))

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &models.OutputError{Reason: "response was not valid JSON", Raw: truncateRaw(raw)}
	}

	cand := &Candidate{
		Kind:      kind,
		Reply:     env.Reply,
		BuildName: env.BuildName,
		Notes:     env.CompatibilityNotes,
	}

	if env.Error != "" {
		budget := env.Budget
		if budget == 0 {
			budget = env.RequestedBudget
		}
		cand.Infeasible = &models.InfeasibleError{
			Reason:          env.Error,
			RequestedBudget: budget,
			MinimumRequired: env.MinimumRequired,
		}
		return cand, nil
	}

	if !isPresent(env.Parts) {
		return cand, nil
	}
	cand.HasParts = true

	var err error
	switch kind {
	case models.KindUpgrade:
		cand.Items, err = decodeUpgradeItems(env.Parts)
	default:
		cand.Items, err = decodeNewBuildItems(env.Parts)
	}
	if err != nil {
		return nil, &models.OutputError{Reason: "parts list malformed", Raw: truncateRaw(raw)}
	}
	return cand, nil
}

func decodeNewBuildItems(raw json.RawMessage) ([]Item, error) {
	var items []newBuildItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		ref := it.PartRef
		if it.SelectedPart != nil {
			ref = *it.SelectedPart
		}
		out = append(out, Item{Category: it.Category, Status: it.Status, Ref: ref})
	}
	return out, nil
}

func decodeUpgradeItems(raw json.RawMessage) ([]Item, error) {
	var items []upgradeItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		ref := it.PartRef
		if it.SelectedPart != nil {
			ref = *it.SelectedPart
		}
		out = append(out, Item{
			Category:     it.Category,
			Status:       it.Status,
			Ref:          ref,
			Alternatives: it.AlternativeParts,
		})
	}
	return out, nil
}

// isPresent reports whether a raw JSON value exists and is not null.
func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
