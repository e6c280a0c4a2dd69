package models

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials indicates the model API key is not configured.
// Surfaces as a 500 with a generic message; the key itself is never echoed.
var ErrMissingCredentials = errors.New("model credentials missing")

// FieldError is a client-caused validation failure naming the offending
// request field. Maps to 400.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return "invalid request: " + e.Reason
}

// OutputError indicates the model's raw output could not be used: not
// parseable as JSON, or parsed but missing required keys. Raw holds a
// truncated prefix of the offending text for diagnosis. Maps to 500.
type OutputError struct {
	Reason string
	Raw    string
}

func (e *OutputError) Error() string {
	if e.Raw == "" {
		return "model output: " + e.Reason
	}
	return fmt.Sprintf("model output: %s (raw: %s)", e.Reason, e.Raw)
}

// InfeasibleError is a structured failure declared by the model itself,
// e.g. no compatible combination fits the budget. Maps to 400 with the
// model's figures echoed to the client.
type InfeasibleError struct {
	Reason          string
	RequestedBudget float64
	MinimumRequired float64
}

func (e *InfeasibleError) Error() string {
	return "model declared request infeasible: " + e.Reason
}

// Reply composes the user-facing explanation for an infeasible request,
// combining the requested budget with the model's stated minimum.
func (e *InfeasibleError) Reply() string {
	return fmt.Sprintf(
		"I'm sorry, I couldn't complete the request. Reason: %s. Your budget was $%.2f, but the minimum cost for a compatible build was $%.2f.",
		e.Reason, e.RequestedBudget, e.MinimumRequired,
	)
}
