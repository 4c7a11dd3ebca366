// Package reconcile implements the reconciliation engine that keeps the casino
// and offer data set free of duplicates while it grows from AI research.
//
// # Components
//
//  1. Normalize / Similarity: canonical name form (lower-case, diacritics folded,
//     stop words such as "online" or "casino" removed) and a bigram Dice coefficient.
//
//  2. Detector: finds a duplicate casino within the same state (exact, contains,
//     then fuzzy at 0.75; first match in scan order wins) and the existing offer an
//     incoming offer should merge into.
//
//  3. Merger: plans and applies create/update/skip/deprecate decisions for the
//     offers of one casino and one source. Offers are never deleted.
//
//  4. Selector: builds research batches in three tiers (tracked never checked,
//     untracked never checked, tracked stalest first).
//
//  5. Orchestrator: runs one batch end to end with a single provider call, isolates
//     per-casino failures, and checkpoints only the casinos that were processed.
//
//  6. DiscoveryReconciler: inserts discovered casinos unless they duplicate a stored one.
//
// # Usage Example
//
//	merger := reconcile.NewMerger(store, nil, logger)
//	orch := reconcile.NewOrchestrator(store, merger, researcher, logger,
//	    reconcile.WithAuditSink(sink))
//
//	result := orch.Run(ctx, reconcile.RunOptions{BatchSize: 10, TriggeredBy: reconcile.TriggerCron})
//	if !result.Success {
//	    // retried by the scheduler on its next interval
//	}
//
// Persistence is reached only through the Store interface; see core/database for
// the GORM implementation.
package reconcile
