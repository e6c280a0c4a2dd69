// Package audit persists one record per advisory model interaction so
// operators can see what the model was asked, what it cost, and what was
// dropped — without persisting any user build.
package audit

import (
	"context"
	"time"
)

// Outcome classifies how an advisory interaction ended.
const (
	OutcomeOK         = "ok"
	OutcomeInfeasible = "infeasible"
	OutcomeBadOutput  = "bad_output"
	OutcomeUpstream   = "upstream_error"
)

// Entry is one advisory interaction.
type Entry struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Query        string    `json:"query"`
	Budget       float64   `json:"budget"`
	Model        string    `json:"model"`
	Outcome      string    `json:"outcome"`
	TotalCost    float64   `json:"total_cost"`
	PartCount    int       `json:"part_count"`
	DroppedCount int       `json:"dropped_count"`
	LatencyMs    int64     `json:"latency_ms"`
	RawPrefix    string    `json:"raw_prefix,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store defines audit persistence operations.
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]*Entry, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
