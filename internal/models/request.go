package models

// RequestKind distinguishes the two advisory flows.
type RequestKind string

const (
	// KindNewBuild assembles a complete build from scratch under a budget.
	KindNewBuild RequestKind = "newBuild"
	// KindUpgrade recommends replacements for parts of an existing rig.
	KindUpgrade RequestKind = "upgrade"
)

// AdvisoryRequest is the wire shape of the advisory endpoint's request body.
type AdvisoryRequest struct {
	Message       string         `json:"message,omitempty"`
	RequestType   string         `json:"requestType"`
	CurrentParts  map[string]any `json:"currentUserParts,omitempty"`
	UpgradeBudget float64        `json:"upgradeBudget,omitempty"`
}

// Validate checks required fields per request kind. It returns a *FieldError
// naming the missing or invalid field, or nil when the request is well formed.
// Validation happens before any catalog or model work.
func (r *AdvisoryRequest) Validate() error {
	switch RequestKind(r.RequestType) {
	case KindNewBuild:
		if r.Message == "" {
			return &FieldError{Field: "message", Reason: `"message" is required for new builds`}
		}
	case KindUpgrade:
		if len(r.CurrentParts) == 0 {
			return &FieldError{Field: "currentUserParts", Reason: `"currentUserParts" is required for upgrades`}
		}
		if r.UpgradeBudget <= 0 {
			return &FieldError{Field: "upgradeBudget", Reason: `"upgradeBudget" must be a positive number for upgrades`}
		}
	default:
		return &FieldError{Field: "requestType", Reason: `"requestType" must be "newBuild" or "upgrade"`}
	}
	return nil
}

// BuildRequest is the normalized input to the advisory engine, constructed
// per request and discarded after the response.
type BuildRequest struct {
	Kind          RequestKind
	Query         string
	Budget        float64        // 0 means "extract from the query or use the default"
	ExistingParts map[string]any // category/slot -> part id or ids; upgrade only
}

// ToBuildRequest converts a validated wire request into the engine's input.
func (r *AdvisoryRequest) ToBuildRequest() *BuildRequest {
	req := &BuildRequest{
		Kind:  RequestKind(r.RequestType),
		Query: r.Message,
	}
	if req.Kind == KindUpgrade {
		req.Budget = r.UpgradeBudget
		req.ExistingParts = r.CurrentParts
	}
	return req
}
