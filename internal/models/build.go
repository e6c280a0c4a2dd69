package models

// PartRef is an authoritative reference to a catalog part. Every PartRef in a
// ValidatedBuild carries catalog-sourced name, price, and category; the
// model's declared id is trusted only as a lookup key.
type PartRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// ValidatedPart is one entry of a validated build. New-build results carry
// status "new" with no alternatives; upgrade results partition entries into
// "existing" (kept) and "new" (purchased).
type ValidatedPart struct {
	Category         string    `json:"category"`
	Status           string    `json:"status"`
	SelectedPart     PartRef   `json:"selectedPart"`
	AlternativeParts []PartRef `json:"alternativeParts"`
}

// DroppedRef records a model part reference that did not resolve against the
// catalog and was excluded from the result. Advisory only.
type DroppedRef struct {
	Category string `json:"category"`
	ID       string `json:"id,omitempty"`
	Reason   string `json:"reason"`
}

// ValidatedBuild is the stable response contract of the advisory flow.
// TotalCost is always recomputed from catalog prices of "new" parts;
// Reply, BuildName, and CompatibilityNotes are model text passed through
// unverified.
type ValidatedBuild struct {
	Reply              string          `json:"reply"`
	BuildName          string          `json:"buildName"`
	Parts              []ValidatedPart `json:"parts"`
	TotalCost          float64         `json:"totalCost"`
	CompatibilityNotes []string        `json:"compatibilityNotes"`
	DeepLink           string          `json:"deepLink"`
	DroppedParts       []DroppedRef    `json:"droppedParts,omitempty"`
	RequestType        RequestKind     `json:"requestType"`
}
