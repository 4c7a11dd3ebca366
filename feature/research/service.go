package research

import (
	"context"
	"fmt"
	"strings"

	"offer-reconciler/core/reconcile"

	"go.uber.org/zap"
)

// Service runs research batches against the configured provider.
type Service struct {
	orchestrator *reconcile.Orchestrator
	cfg          Config
	logger       *zap.Logger
}

// NewService creates a new research service.
func NewService(store reconcile.Store, researcher reconcile.Researcher, audit reconcile.AuditSink, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []reconcile.OrchestratorOption{}
	if cfg.Source != "" {
		opts = append(opts, reconcile.WithSource(cfg.Source))
	}
	if audit != nil {
		opts = append(opts, reconcile.WithAuditSink(audit))
	}
	merger := reconcile.NewMerger(store, nil, logger)
	return &Service{
		orchestrator: reconcile.NewOrchestrator(store, merger, researcher, logger, opts...),
		cfg:          cfg,
		logger:       logger,
	}
}

// Run executes one research batch.
func (s *Service) Run(ctx context.Context, batchSize int, trigger reconcile.Trigger) reconcile.BatchResult {
	return s.orchestrator.Run(ctx, reconcile.RunOptions{
		BatchSize:   s.cfg.ClampBatchSize(batchSize),
		TriggeredBy: trigger,
	})
}

// Candidates previews the casinos the next batch would research.
func (s *Service) Candidates(ctx context.Context, batchSize int) ([]reconcile.Candidate, error) {
	return s.orchestrator.Selector().SelectCandidates(ctx, s.cfg.ClampBatchSize(batchSize))
}

// ParseTrigger validates a trigger name. Empty means manual.
func ParseTrigger(name string) (reconcile.Trigger, error) {
	switch reconcile.Trigger(strings.ToLower(strings.TrimSpace(name))) {
	case "", reconcile.TriggerManual:
		return reconcile.TriggerManual, nil
	case reconcile.TriggerCron:
		return reconcile.TriggerCron, nil
	default:
		return "", fmt.Errorf("%w: unknown trigger %q", reconcile.ErrInvalidInput, name)
	}
}
