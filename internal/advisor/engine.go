// Package advisor orchestrates the advisory flow: prompt rendering, the
// model round trip, extraction, reconciliation, and the audit trail.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/buildbot/internal/audit"
	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/extract"
	"github.com/hyperjump/buildbot/internal/llm"
	"github.com/hyperjump/buildbot/internal/models"
	"github.com/hyperjump/buildbot/internal/prompt"
	"github.com/hyperjump/buildbot/internal/reconcile"
	"github.com/hyperjump/buildbot/pkg/utils"
	"go.uber.org/zap"
)

// Engine runs advisory requests end to end. It holds no per-request state;
// the catalog snapshot is read once per request and threaded through as a
// parameter.
type Engine struct {
	catalog       *catalog.Store
	gateway       llm.Gateway
	budgets       prompt.BudgetExtractor
	reconciler    *reconcile.Reconciler
	audit         audit.Store
	defaultBudget float64
	logger        *zap.Logger
}

// NewEngine creates an advisory engine. gateway may be nil when model
// credentials are not configured; requests then fail with
// models.ErrMissingCredentials after input validation, matching the
// fail-per-request contract. auditStore may be nil to disable auditing.
func NewEngine(
	store *catalog.Store,
	gateway llm.Gateway,
	auditStore audit.Store,
	defaultBudget float64,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		catalog:       store,
		gateway:       gateway,
		budgets:       prompt.RegexExtractor{},
		reconciler:    reconcile.New(logger),
		audit:         auditStore,
		defaultBudget: defaultBudget,
		logger:        logger,
	}
}

// Suggest turns a build request into a validated build. Error values map to
// client responses: *models.InfeasibleError (400), *models.OutputError
// (500), models.ErrMissingCredentials (500); anything else is an upstream
// call failure (500).
func (e *Engine) Suggest(ctx context.Context, req *models.BuildRequest) (*models.ValidatedBuild, error) {
	if e.gateway == nil {
		return nil, models.ErrMissingCredentials
	}

	snap := e.catalog.Snapshot()
	summary := prompt.Summary(snap)

	budget := req.Budget
	if req.Kind == models.KindNewBuild && budget == 0 {
		if parsed, ok := e.budgets.Extract(req.Query); ok {
			budget = parsed
		} else {
			budget = e.defaultBudget
		}
		e.logger.Debug("budget resolved from query",
			zap.Float64("budget", budget), zap.String("query", utils.Truncate(req.Query, 80)))
	}

	var system, user string
	switch req.Kind {
	case models.KindUpgrade:
		system = prompt.Upgrade(summary)
		user = prompt.UpgradeMessage(req.ExistingParts, budget, req.Query)
	default:
		system = prompt.NewBuild(summary, budget)
		user = prompt.NewBuildMessage(req.Query)
	}

	start := time.Now()
	raw, err := e.gateway.Complete(ctx, system, user)
	latency := time.Since(start)
	if err != nil {
		e.record(ctx, req, budget, audit.OutcomeUpstream, latency, nil, "")
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	cand, err := extract.Decode(req.Kind, raw)
	if err != nil {
		e.record(ctx, req, budget, audit.OutcomeBadOutput, latency, nil, utils.Truncate(raw, 200))
		return nil, err
	}

	build, err := e.reconciler.Reconcile(cand, snap)
	if err != nil {
		var infeasible *models.InfeasibleError
		outcome := audit.OutcomeBadOutput
		if errors.As(err, &infeasible) {
			outcome = audit.OutcomeInfeasible
		}
		e.record(ctx, req, budget, outcome, latency, nil, utils.Truncate(raw, 200))
		return nil, err
	}

	e.record(ctx, req, budget, audit.OutcomeOK, latency, build, "")
	e.logger.Info("advisory request completed",
		zap.String("kind", string(req.Kind)),
		zap.Float64("budget", budget),
		zap.Float64("total_cost", build.TotalCost),
		zap.Int("parts", len(build.Parts)),
		zap.Int("dropped", len(build.DroppedParts)),
		zap.Duration("latency", latency),
	)
	return build, nil
}

// record writes the audit entry; audit failures are logged, never surfaced.
func (e *Engine) record(ctx context.Context, req *models.BuildRequest, budget float64, outcome string, latency time.Duration, build *models.ValidatedBuild, rawPrefix string) {
	if e.audit == nil {
		return
	}
	entry := &audit.Entry{
		Kind:      string(req.Kind),
		Query:     utils.Truncate(req.Query, 500),
		Budget:    budget,
		Model:     e.gateway.Name(),
		Outcome:   outcome,
		LatencyMs: latency.Milliseconds(),
		RawPrefix: rawPrefix,
	}
	if build != nil {
		entry.TotalCost = build.TotalCost
		entry.PartCount = len(build.Parts)
		entry.DroppedCount = len(build.DroppedParts)
	}
	if err := e.audit.Record(ctx, entry); err != nil {
		e.logger.Warn("audit record failed", zap.Error(err))
	}
}
