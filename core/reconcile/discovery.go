package reconcile

import (
	"context"
	"strings"
	"time"

	"offer-reconciler/core/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscoveryReconciler inserts newly discovered casinos that are not duplicates
// of casinos already stored for the same state. Matches are never merged into
// the existing record.
type DiscoveryReconciler struct {
	store    Store
	states   *StateResolver
	detector *Detector
	audit    AuditSink
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewDiscoveryReconciler wires a discovery reconciler. Nil collaborators select defaults.
func NewDiscoveryReconciler(store Store, states *StateResolver, detector *Detector, audit AuditSink, logger *zap.Logger) *DiscoveryReconciler {
	if states == nil {
		states = NewStateResolver(store, 0)
	}
	if detector == nil {
		detector = NewDetector(nil, nil)
	}
	if audit == nil {
		audit = NopAuditSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscoveryReconciler{
		store:    store,
		states:   states,
		detector: detector,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ReconcileDiscovered stores the discovered casinos of a state, skipping duplicates.
// Casinos inserted earlier in the same call take part in duplicate detection.
// It never returns an error; failures are reported through the result.
func (d *DiscoveryReconciler) ReconcileDiscovered(ctx context.Context, stateAbbr string, discovered []DiscoveredCasino) DiscoveryResult {
	started := d.now()
	runID := uuid.NewString()
	log := d.logger.With(zap.String("run_id", runID), zap.String("state", stateAbbr))

	result := DiscoveryResult{
		Saved:      []models.Casino{},
		Duplicates: []DuplicateEntry{},
		Errors:     []ItemError{},
	}

	finish := func() DiscoveryResult {
		result.SavedCount = len(result.Saved)
		result.DurationMs = d.now().Sub(started).Milliseconds()
		d.audit.RecordDiscovery(context.WithoutCancel(ctx), DiscoveryRecord{
			RunID:      runID,
			State:      strings.ToUpper(strings.TrimSpace(stateAbbr)),
			Saved:      result.SavedCount,
			Skipped:    result.SkippedCount,
			Duplicates: result.Duplicates,
			DurationMs: result.DurationMs,
			Success:    result.Success,
			Error:      result.Error,
		})
		log.Info("Discovery reconciled",
			zap.Bool("success", result.Success),
			zap.Int("saved", result.SavedCount),
			zap.Int("skipped", result.SkippedCount),
			zap.Int("errors", len(result.Errors)),
		)
		return result
	}

	for _, found := range discovered {
		if err := ctx.Err(); err != nil {
			result.Error = err.Error()
			return finish()
		}

		state, err := d.states.Resolve(ctx, stateAbbr)
		if err != nil {
			log.Error("Failed to resolve state", zap.Error(err))
			result.Error = err.Error()
			return finish()
		}

		existing, err := d.store.CasinosByState(ctx, state.ID)
		if err != nil {
			log.Error("Failed to load casinos", zap.Error(err))
			result.Error = err.Error()
			return finish()
		}

		candidate := models.Casino{
			ID:            d.newID(),
			Name:          strings.TrimSpace(found.Name),
			Website:       optional(found.Website),
			LicenseStatus: optional(found.LicenseStatus),
			SourceURL:     optional(found.SourceURL),
			StateID:       state.ID,
			IsTracked:     false,
			CreationTime:  d.now(),
		}

		match := d.detector.FindDuplicateCasino(candidate, existing)
		if match.Match != nil {
			result.Duplicates = append(result.Duplicates, DuplicateEntry{
				Discovered: found,
				Existing:   *match.Match,
				Reason:     match.Reason,
				Score:      match.Score,
			})
			result.SkippedCount++
			log.Debug("Skipping duplicate casino",
				zap.String("discovered", found.Name),
				zap.String("existing", match.Match.Name),
				zap.String("reason", string(match.Reason)),
			)
			continue
		}

		if err := d.store.InsertCasino(ctx, &candidate); err != nil {
			result.Errors = append(result.Errors, ItemError{CasinoName: found.Name, Error: err.Error()})
			log.Warn("Failed to save casino", zap.String("casino_name", found.Name), zap.Error(err))
			continue
		}
		result.Saved = append(result.Saved, candidate)
	}

	result.Success = true
	return finish()
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
