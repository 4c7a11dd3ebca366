package reconcile

import (
	"context"
	"fmt"

	"offer-reconciler/core/models"
)

// Tier is a priority group of research candidates.
type Tier int

const (
	// TierTrackedUnchecked holds tracked casinos that were never researched.
	TierTrackedUnchecked Tier = iota + 1
	// TierUntrackedUnchecked holds untracked casinos that were never researched.
	TierUntrackedUnchecked
	// TierTrackedStale holds tracked casinos ordered by stalest check first.
	TierTrackedStale
)

// String returns the tier label used in logs and API responses.
func (t Tier) String() string {
	switch t {
	case TierTrackedUnchecked:
		return "tracked_unchecked"
	case TierUntrackedUnchecked:
		return "untracked_unchecked"
	case TierTrackedStale:
		return "tracked_stale"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier by its label.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Candidate is a casino selected for research together with its tier.
type Candidate struct {
	Casino models.Casino `json:"casino"`
	Tier   Tier          `json:"tier"`
}

// Selector builds priority-tiered research batches.
type Selector struct {
	store CasinoStore
}

// NewSelector creates a selector over store.
func NewSelector(store CasinoStore) *Selector {
	return &Selector{store: store}
}

// SelectForResearch returns at most batchSize casinos: every never-researched
// tracked casino first, then never-researched untracked casinos, then tracked
// casinos by stalest check. A tier is exhausted before the next is queried and
// a casino appears at most once.
func (s *Selector) SelectForResearch(ctx context.Context, batchSize int) ([]models.Casino, error) {
	candidates, err := s.SelectCandidates(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	casinos := make([]models.Casino, len(candidates))
	for i, c := range candidates {
		casinos[i] = c.Casino
	}
	return casinos, nil
}

// SelectCandidates is SelectForResearch with the tier of each casino attached.
func (s *Selector) SelectCandidates(ctx context.Context, batchSize int) ([]Candidate, error) {
	if batchSize <= 0 {
		return []Candidate{}, nil
	}

	selected := make([]Candidate, 0, batchSize)
	seen := make(map[string]struct{}, batchSize)

	add := func(tier Tier, casinos []models.Casino) {
		for _, c := range casinos {
			if len(selected) >= batchSize {
				return
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			selected = append(selected, Candidate{Casino: c, Tier: tier})
		}
	}

	tiers := []struct {
		tier Tier
		load func(limit int) ([]models.Casino, error)
	}{
		{TierTrackedUnchecked, func(limit int) ([]models.Casino, error) {
			return s.store.UnresearchedCasinos(ctx, true, limit)
		}},
		{TierUntrackedUnchecked, func(limit int) ([]models.Casino, error) {
			return s.store.UnresearchedCasinos(ctx, false, limit)
		}},
		{TierTrackedStale, func(limit int) ([]models.Casino, error) {
			return s.store.StaleTrackedCasinos(ctx, limit)
		}},
	}

	for _, t := range tiers {
		remaining := batchSize - len(selected)
		if remaining <= 0 {
			break
		}
		casinos, err := t.load(remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s candidates: %w", t.tier, err)
		}
		add(t.tier, casinos)
	}

	return selected, nil
}
