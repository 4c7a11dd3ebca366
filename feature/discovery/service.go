package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"offer-reconciler/core/models"
	"offer-reconciler/core/reconcile"
	"offer-reconciler/core/utils"

	"go.uber.org/zap"
)

// Request is the body of a discovery submission.
type Request struct {
	Casinos []reconcile.DiscoveredCasino `json:"casinos" validate:"dive"`
}

// Service reconciles discovered casinos into the store.
type Service struct {
	store      reconcile.Store
	reconciler *reconcile.DiscoveryReconciler
	cfg        Config
	logger     *zap.Logger
}

// NewService creates a new discovery service.
func NewService(store reconcile.Store, audit reconcile.AuditSink, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	states := reconcile.NewStateResolver(store, cfg.StateCacheTTL())
	return &Service{
		store:      store,
		reconciler: reconcile.NewDiscoveryReconciler(store, states, nil, audit, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// Validate checks a request before it is reconciled.
func (s *Service) Validate(req Request) error {
	if s.cfg.MaxCasinos > 0 && len(req.Casinos) > s.cfg.MaxCasinos {
		return fmt.Errorf("%w: at most %d casinos per request", reconcile.ErrInvalidInput, s.cfg.MaxCasinos)
	}
	return utils.Validate.Struct(req)
}

// Reconcile stores the discovered casinos of a state, skipping duplicates.
func (s *Service) Reconcile(ctx context.Context, state string, casinos []reconcile.DiscoveredCasino) reconcile.DiscoveryResult {
	return s.reconciler.ReconcileDiscovered(ctx, state, casinos)
}

// Casinos lists the casinos stored for a state.
func (s *Service) Casinos(ctx context.Context, state string) ([]models.Casino, error) {
	st, err := s.store.FindStateByAbbreviation(ctx, strings.TrimSpace(state))
	if err != nil {
		return nil, err
	}
	return s.store.CasinosByState(ctx, st.ID)
}

// DecodeRequest reads a discovery submission. Both {"casinos":[...]} and a
// bare array are accepted.
func DecodeRequest(r io.Reader) (Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Request{}, err
	}

	var req Request
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &req.Casinos)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", reconcile.ErrInvalidInput, err)
	}
	return req, nil
}
