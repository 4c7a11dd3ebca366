package casinos

import (
	"context"
	"strings"

	"offer-reconciler/core/models"
	"offer-reconciler/core/reconcile"

	"go.uber.org/zap"
)

// Store is the persistence the casinos feature needs.
type Store interface {
	reconcile.Store
	AllOffersForCasino(ctx context.Context, casinoID string, includeDeprecated bool) ([]models.Offer, error)
}

// TrackingRequest toggles whether a casino is tracked.
type TrackingRequest struct {
	Tracked *bool `json:"tracked" validate:"required"`
}

// MergeRequest carries offers from an external feed.
type MergeRequest struct {
	Source string               `json:"source" validate:"omitempty,max=32"`
	Offers []models.OfferFields `json:"offers" validate:"dive"`
}

// MergeResponse is the outcome of a feed merge. Summary is empty for dry runs.
type MergeResponse struct {
	DryRun  bool                   `json:"dry_run"`
	Plan    *reconcile.MergePlan   `json:"plan"`
	Summary reconcile.MergeSummary `json:"summary"`
}

// Service manages casinos and their offers.
type Service struct {
	store  Store
	merger *reconcile.Merger
	logger *zap.Logger
}

// NewService creates a new casinos service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		merger: reconcile.NewMerger(store, nil, logger),
		logger: logger,
	}
}

// Get returns one casino.
func (s *Service) Get(ctx context.Context, id string) (*models.Casino, error) {
	return s.store.GetCasino(ctx, id)
}

// SetTracked marks a casino tracked or untracked and returns it.
func (s *Service) SetTracked(ctx context.Context, id string, tracked bool) (*models.Casino, error) {
	if err := s.store.SetCasinoTracked(ctx, id, tracked); err != nil {
		return nil, err
	}
	return s.store.GetCasino(ctx, id)
}

// Offers lists a casino's offers across sources.
func (s *Service) Offers(ctx context.Context, id string, includeDeprecated bool) ([]models.Offer, error) {
	if _, err := s.store.GetCasino(ctx, id); err != nil {
		return nil, err
	}
	return s.store.AllOffersForCasino(ctx, id, includeDeprecated)
}

// MergeOffers reconciles feed offers into a casino. A dry run only plans.
func (s *Service) MergeOffers(ctx context.Context, id string, req MergeRequest, dryRun bool) (*MergeResponse, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.SourceExternalFeed
	}

	plan, err := s.merger.Plan(ctx, id, req.Offers, source)
	if err != nil {
		return nil, err
	}

	resp := &MergeResponse{DryRun: dryRun, Plan: plan}
	if dryRun {
		return resp, nil
	}

	resp.Summary, err = s.merger.Apply(ctx, plan)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
