package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"offer-reconciler/core/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunOptions controls one research batch.
type RunOptions struct {
	// BatchSize caps the number of casinos researched.
	BatchSize int
	// TriggeredBy is reported to the audit sink.
	TriggeredBy Trigger
}

// Orchestrator drives research batches:
// selecting -> researching -> merging -> checkpointing -> done, or failed.
type Orchestrator struct {
	store      Store
	selector   *Selector
	merger     *Merger
	researcher Researcher
	audit      AuditSink
	logger     *zap.Logger
	source     string
	now        func() time.Time
	newRunID   func() string
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithAuditSink sets the audit collaborator.
func WithAuditSink(sink AuditSink) OrchestratorOption {
	return func(o *Orchestrator) { o.audit = sink }
}

// WithSource sets the provenance tag of researched offers.
func WithSource(source string) OrchestratorOption {
	return func(o *Orchestrator) { o.source = source }
}

// WithClock overrides the clock used for checkpoints and durations.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires an orchestrator. The researcher is injected here and
// never resolved lazily.
func NewOrchestrator(store Store, merger *Merger, researcher Researcher, logger *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if merger == nil {
		merger = NewMerger(store, nil, logger)
	}
	o := &Orchestrator{
		store:      store,
		selector:   NewSelector(store),
		merger:     merger,
		researcher: researcher,
		audit:      NopAuditSink{},
		logger:     logger,
		source:     models.SourceAIResearch,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Selector exposes the candidate selector used by the orchestrator.
func (o *Orchestrator) Selector() *Selector {
	return o.selector
}

// Run executes one research batch. It never returns an error: infrastructure
// failures end in PhaseFailed with Success=false, per-casino failures are
// collected in Errors while the batch continues.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) BatchResult {
	started := o.now()
	runID := o.newRunID()
	log := o.logger.With(zap.String("run_id", runID), zap.String("triggered_by", string(opts.TriggeredBy)))

	result := BatchResult{
		Phase:              PhaseSelecting,
		Errors:             []ItemError{},
		ProcessedCasinoIDs: []string{},
	}

	finish := func() BatchResult {
		result.DurationMs = o.now().Sub(started).Milliseconds()
		// the record outlives a cancelled run
		o.audit.RecordResearch(context.WithoutCancel(ctx), ResearchRecord{
			RunID:       runID,
			TriggeredBy: opts.TriggeredBy,
			BatchSize:   opts.BatchSize,
			Success:     result.Success,
			Error:       result.Error,
			Processed:   result.Processed,
			Created:     result.Created,
			Updated:     result.Updated,
			Skipped:     result.Skipped,
			Errors:      result.Errors,
			DurationMs:  result.DurationMs,
			Usage:       result.Usage,
		})
		log.Info("Research batch finished",
			zap.String("phase", string(result.Phase)),
			zap.Bool("success", result.Success),
			zap.Int("processed", result.Processed),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
			zap.Int("errors", len(result.Errors)),
			zap.Int64("duration_ms", result.DurationMs),
		)
		return result
	}

	fail := func(err error) BatchResult {
		log.Error("Research batch failed", zap.String("phase", string(result.Phase)), zap.Error(err))
		result.Phase = PhaseFailed
		result.Success = false
		result.Error = err.Error()
		return finish()
	}

	// Selecting
	candidates, err := o.selector.SelectForResearch(ctx, opts.BatchSize)
	if err != nil {
		return fail(err)
	}
	if len(candidates) == 0 {
		log.Info("No casinos due for research")
		result.Phase = PhaseDone
		result.Success = true
		return finish()
	}

	// Researching
	result.Phase = PhaseResearching
	log.Info("Researching casinos", zap.Int("candidates", len(candidates)))
	if o.researcher == nil {
		return fail(&ProviderError{Err: errors.New("no research provider configured")})
	}
	response, err := o.researcher.Research(ctx, researchTargets(candidates))
	if err != nil {
		return fail(&ProviderError{Err: err})
	}
	if response == nil {
		return fail(&ProviderError{Err: errors.New("empty response")})
	}
	result.Usage = response.Usage

	// Merging
	result.Phase = PhaseMerging
	lookup := newCasinoLookup(o.merger.detector, candidates)
	done := make(map[string]struct{}, len(candidates))

	for _, res := range response.Results {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		casino, err := lookup.resolve(res)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{CasinoID: res.CasinoID, CasinoName: res.CasinoName, Error: err.Error()})
			log.Warn("Research result does not match a candidate", zap.String("casino_name", res.CasinoName), zap.Error(err))
			continue
		}
		if _, dup := done[casino.ID]; dup {
			result.Errors = append(result.Errors, ItemError{CasinoID: casino.ID, CasinoName: casino.Name, Error: "duplicate research result"})
			continue
		}

		summary, err := o.merger.Merge(ctx, casino.ID, res.Offers, o.source)
		// a failed apply still reports the writes it made
		result.Created += summary.Created
		result.Updated += summary.Updated
		result.Skipped += summary.Skipped
		result.Deprecated += summary.Deprecated
		if err != nil {
			result.Errors = append(result.Errors, ItemError{CasinoID: casino.ID, CasinoName: casino.Name, Error: err.Error()})
			log.Warn("Failed to merge offers", zap.String("casino_id", casino.ID), zap.String("casino_name", casino.Name), zap.Error(err))
			continue
		}

		done[casino.ID] = struct{}{}
		result.ProcessedCasinoIDs = append(result.ProcessedCasinoIDs, casino.ID)
	}
	result.Processed = len(result.ProcessedCasinoIDs)

	// Checkpointing
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	result.Phase = PhaseCheckpointing
	if len(result.ProcessedCasinoIDs) > 0 {
		if err := o.store.MarkOfferCheck(ctx, result.ProcessedCasinoIDs, o.now()); err != nil {
			return fail(fmt.Errorf("failed to checkpoint researched casinos: %w", err))
		}
	}

	result.Phase = PhaseDone
	result.Success = true
	return finish()
}

func researchTargets(casinos []models.Casino) []ResearchTarget {
	targets := make([]ResearchTarget, len(casinos))
	for i, c := range casinos {
		targets[i] = ResearchTarget{ID: c.ID, Name: c.Name}
		if c.Website != nil {
			targets[i].Website = *c.Website
		}
	}
	return targets
}

// casinoLookup maps provider results back to the candidates of the batch.
type casinoLookup struct {
	detector   *Detector
	byID       map[string]*models.Casino
	byName     map[string]*models.Casino
	byNormName map[string]*models.Casino
}

func newCasinoLookup(detector *Detector, casinos []models.Casino) *casinoLookup {
	l := &casinoLookup{
		detector:   detector,
		byID:       make(map[string]*models.Casino, len(casinos)),
		byName:     make(map[string]*models.Casino, len(casinos)),
		byNormName: make(map[string]*models.Casino, len(casinos)),
	}
	for i := range casinos {
		c := &casinos[i]
		l.byID[c.ID] = c
		if _, ok := l.byName[nameKey(c.Name)]; !ok {
			l.byName[nameKey(c.Name)] = c
		}
		norm := detector.Normalize(c.Name)
		if _, ok := l.byNormName[norm]; !ok {
			l.byNormName[norm] = c
		}
	}
	return l
}

// resolve prefers the provider-returned ID, then the exact name, then the normalized name.
func (l *casinoLookup) resolve(res ResearchResult) (*models.Casino, error) {
	if res.CasinoID != "" {
		if c, ok := l.byID[res.CasinoID]; ok {
			return c, nil
		}
	}
	if res.CasinoName != "" {
		if c, ok := l.byName[nameKey(res.CasinoName)]; ok {
			return c, nil
		}
		if c, ok := l.byNormName[l.detector.Normalize(res.CasinoName)]; ok {
			return c, nil
		}
	}

	ref := res.CasinoName
	if ref == "" {
		ref = res.CasinoID
	}
	return nil, NewNotFoundError("casino", ref)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
