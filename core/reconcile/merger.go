package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"offer-reconciler/core/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OfferRetainThreshold is the name similarity below which a matched offer counts as renamed.
const OfferRetainThreshold = 0.9

const pendingIDAlias = "pending:"

var (
	bonusEpsilon  = decimal.RequireFromString("0.01")
	moneyRatio    = decimal.RequireFromString("0.01")
	moneyAbsFloor = decimal.NewFromInt(1)
)

// Merger reconciles incoming offers with the stored offers of a casino.
type Merger struct {
	store    Store
	detector *Detector
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// MergerOption customizes a Merger.
type MergerOption func(*Merger)

// WithMergerClock overrides the clock used for updated_at and creation_time.
func WithMergerClock(now func() time.Time) MergerOption {
	return func(m *Merger) { m.now = now }
}

// WithMergerIDs overrides the ID generator for new offers.
func WithMergerIDs(newID func() string) MergerOption {
	return func(m *Merger) { m.newID = newID }
}

// NewMerger creates a merger. A nil detector selects the default strategies.
func NewMerger(store Store, detector *Detector, logger *zap.Logger, opts ...MergerOption) *Merger {
	if detector == nil {
		detector = NewDetector(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Merger{
		store:    store,
		detector: detector,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge reconciles incoming offers of one source into a casino's offers and
// writes the outcome. Re-running Merge with the same input is a no-op.
func (m *Merger) Merge(ctx context.Context, casinoID string, incoming []models.OfferFields, source string) (MergeSummary, error) {
	plan, err := m.Plan(ctx, casinoID, incoming, source)
	if err != nil {
		return MergeSummary{}, err
	}
	return m.Apply(ctx, plan)
}

// Plan loads the casino's offers for source and computes the merge without writing.
func (m *Merger) Plan(ctx context.Context, casinoID string, incoming []models.OfferFields, source string) (*MergePlan, error) {
	if casinoID == "" || source == "" {
		return nil, fmt.Errorf("%w: casino id and source are required", ErrInvalidInput)
	}

	if _, err := m.store.GetCasino(ctx, casinoID); err != nil {
		return nil, fmt.Errorf("failed to load casino %s: %w", casinoID, err)
	}

	existing, err := m.store.OffersForCasino(ctx, casinoID, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers for casino %s: %w", casinoID, err)
	}

	plan := PlanMerge(m.detector, casinoID, source, existing, incoming)
	return &plan, nil
}

// Apply executes a merge plan. Creates and updates are written one by one,
// deprecations in a single call.
func (m *Merger) Apply(ctx context.Context, plan *MergePlan) (MergeSummary, error) {
	var (
		summary   MergeSummary
		deprecate []string
	)
	now := m.now()

	for _, action := range plan.Actions {
		switch action.Type {
		case ActionCreate:
			offer := &models.Offer{
				ID:           m.newID(),
				CasinoID:     plan.CasinoID,
				Source:       plan.Source,
				OfferFields:  *action.Fields,
				UpdatedAt:    now,
				CreationTime: now,
			}
			if err := m.store.InsertOffer(ctx, offer); err != nil {
				return summary, fmt.Errorf("failed to create offer %q: %w", action.OfferName, err)
			}
			summary.Created++
		case ActionUpdate:
			patch := OfferPatch{Fields: *action.Fields, IsDeprecated: false, UpdatedAt: now}
			if err := m.store.UpdateOffer(ctx, action.OfferID, patch); err != nil {
				return summary, fmt.Errorf("failed to update offer %s: %w", action.OfferID, err)
			}
			summary.Updated++
		case ActionSkip:
			summary.Skipped++
		case ActionDeprecate:
			deprecate = append(deprecate, action.OfferID)
		}
	}

	if len(deprecate) > 0 {
		if err := m.store.DeprecateOffers(ctx, deprecate, now); err != nil {
			return summary, fmt.Errorf("failed to deprecate offers: %w", err)
		}
		summary.Deprecated = len(deprecate)
	}

	m.logger.Debug("Merged offers",
		zap.String("casino_id", plan.CasinoID),
		zap.String("source", plan.Source),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("deprecated", summary.Deprecated),
	)

	return summary, nil
}

// PlanMerge decides, for every incoming offer, whether it creates, updates or
// leaves an existing offer, then deprecates existing offers that are neither
// matched nor named in the incoming set. Only offers of source take part.
//
// An existing offer is merged at most once per plan; later incoming offers that
// match it again (including offers created earlier in the same plan) are skipped.
func PlanMerge(detector *Detector, casinoID, source string, existing []models.Offer, incoming []models.OfferFields) MergePlan {
	if detector == nil {
		detector = NewDetector(nil, nil)
	}

	working := make([]models.Offer, 0, len(existing)+len(incoming))
	for _, offer := range existing {
		if offer.Source == source {
			working = append(working, offer)
		}
	}

	plan := MergePlan{CasinoID: casinoID, Source: source, Actions: []MergeAction{}}
	merged := make(map[string]bool, len(working))
	incomingNames := make(map[string]struct{}, len(incoming))

	for i := range incoming {
		in := incoming[i]
		incomingNames[detector.Normalize(in.OfferName)] = struct{}{}

		match := detector.MatchOffer(in, working, source, true)
		if match == nil {
			working = append(working, models.Offer{
				ID:          fmt.Sprintf("%s%d", pendingIDAlias, i),
				CasinoID:    casinoID,
				Source:      source,
				OfferFields: in,
			})
			merged[working[len(working)-1].ID] = true
			plan.Actions = append(plan.Actions, MergeAction{
				Type:      ActionCreate,
				OfferName: in.OfferName,
				Reason:    "no matching offer",
				Fields:    &in,
			})
			plan.Summary.Created++
			continue
		}

		if merged[match.ID] {
			plan.Actions = append(plan.Actions, MergeAction{
				Type:      ActionSkip,
				OfferID:   externalID(match.ID),
				OfferName: match.OfferName,
				Reason:    "already merged in this batch",
			})
			plan.Summary.Skipped++
			continue
		}
		merged[match.ID] = true

		changes := significantChanges(detector, *match, in)
		if match.IsDeprecated {
			changes = append(changes, "revived deprecated offer")
		}
		if len(changes) == 0 {
			plan.Actions = append(plan.Actions, MergeAction{
				Type:      ActionSkip,
				OfferID:   match.ID,
				OfferName: match.OfferName,
				Reason:    "no significant change",
			})
			plan.Summary.Skipped++
			continue
		}

		match.OfferFields = in
		match.IsDeprecated = false
		plan.Actions = append(plan.Actions, MergeAction{
			Type:      ActionUpdate,
			OfferID:   match.ID,
			OfferName: in.OfferName,
			Reason:    fmt.Sprintf("changed: %v", changes),
			Fields:    &in,
		})
		plan.Summary.Updated++
	}

	for _, offer := range working {
		if offer.IsDeprecated || merged[offer.ID] {
			continue
		}
		if _, present := incomingNames[detector.Normalize(offer.OfferName)]; present {
			continue
		}
		plan.Actions = append(plan.Actions, MergeAction{
			Type:      ActionDeprecate,
			OfferID:   offer.ID,
			OfferName: offer.OfferName,
			Reason:    "no longer promoted",
		})
		plan.Summary.Deprecated++
	}

	return plan
}

// significantChanges lists the differences that justify a write.
func significantChanges(detector *Detector, existing models.Offer, incoming models.OfferFields) []string {
	var changes []string

	if moneyChanged(existing.ExpectedBonus, incoming.ExpectedBonus) {
		changes = append(changes, fmt.Sprintf("expected_bonus: %s -> %s",
			formatMoney(existing.ExpectedBonus), formatMoney(incoming.ExpectedBonus)))
	}
	if moneyChanged(existing.ExpectedDeposit, incoming.ExpectedDeposit) {
		changes = append(changes, fmt.Sprintf("expected_deposit: %s -> %s",
			formatMoney(existing.ExpectedDeposit), formatMoney(incoming.ExpectedDeposit)))
	}
	if existing.OfferType != incoming.OfferType {
		changes = append(changes, fmt.Sprintf("offer_type: %q -> %q", existing.OfferType, incoming.OfferType))
	}
	if detector.Similarity(existing.OfferName, incoming.OfferName) < OfferRetainThreshold {
		changes = append(changes, fmt.Sprintf("offer_name: %q -> %q", existing.OfferName, incoming.OfferName))
	}

	return changes
}

// moneyChanged reports whether two amounts differ by more than 1% of the old
// amount or by more than $1. Gaining or losing a value always counts.
func moneyChanged(old, updated decimal.NullDecimal) bool {
	if !old.Valid && !updated.Valid {
		return false
	}
	if old.Valid != updated.Valid {
		return true
	}

	delta := updated.Decimal.Sub(old.Decimal).Abs()
	tolerance := decimal.Min(old.Decimal.Abs().Mul(moneyRatio), moneyAbsFloor)
	return delta.GreaterThan(tolerance)
}

func formatMoney(v decimal.NullDecimal) string {
	if !v.Valid {
		return "none"
	}
	return v.Decimal.StringFixed(2)
}

// externalID hides the placeholder IDs of offers created in the same plan.
func externalID(id string) string {
	if strings.HasPrefix(id, pendingIDAlias) {
		return ""
	}
	return id
}
