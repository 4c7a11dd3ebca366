package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"offer-reconciler/core/models"
	"offer-reconciler/core/reconcile"

	"gorm.io/gorm"
)

// Store is the GORM implementation of reconcile.Store.
type Store struct {
	db *gorm.DB
}

var _ reconcile.Store = (*Store)(nil)

// NewStore wraps an open connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.NewNotFoundError(resource, id)
	}
	return err
}

// FindStateByAbbreviation implements reconcile.StateStore.
func (s *Store) FindStateByAbbreviation(ctx context.Context, abbreviation string) (*models.State, error) {
	var state models.State
	err := s.db.WithContext(ctx).
		Where("UPPER(abbreviation) = ?", strings.ToUpper(abbreviation)).
		Take(&state).Error
	if err != nil {
		return nil, notFound(err, "state", abbreviation)
	}
	return &state, nil
}

// InsertState implements reconcile.StateStore.
func (s *Store) InsertState(ctx context.Context, state *models.State) error {
	return s.db.WithContext(ctx).Create(state).Error
}

// GetCasino implements reconcile.CasinoStore.
func (s *Store) GetCasino(ctx context.Context, id string) (*models.Casino, error) {
	var casino models.Casino
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&casino).Error; err != nil {
		return nil, notFound(err, "casino", id)
	}
	return &casino, nil
}

// CasinosByState implements reconcile.CasinoStore.
func (s *Store) CasinosByState(ctx context.Context, stateID string) ([]models.Casino, error) {
	var casinos []models.Casino
	err := s.db.WithContext(ctx).
		Where("state_id = ?", stateID).
		Order("creation_time ASC, id ASC").
		Find(&casinos).Error
	return casinos, err
}

// InsertCasino implements reconcile.CasinoStore.
func (s *Store) InsertCasino(ctx context.Context, casino *models.Casino) error {
	return s.db.WithContext(ctx).Create(casino).Error
}

// SetCasinoTracked implements reconcile.CasinoStore.
func (s *Store) SetCasinoTracked(ctx context.Context, id string, tracked bool) error {
	// MySQL reports zero affected rows for a no-op update, so existence is checked first
	if _, err := s.GetCasino(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&models.Casino{}).
		Where("id = ?", id).
		Update("is_tracked", tracked).Error
}

// UnresearchedCasinos implements reconcile.CasinoStore.
func (s *Store) UnresearchedCasinos(ctx context.Context, tracked bool, limit int) ([]models.Casino, error) {
	var casinos []models.Casino
	err := s.db.WithContext(ctx).
		Where("is_tracked = ? AND last_offer_check IS NULL", tracked).
		Order("creation_time ASC, id ASC").
		Limit(limit).
		Find(&casinos).Error
	return casinos, err
}

// StaleTrackedCasinos implements reconcile.CasinoStore.
func (s *Store) StaleTrackedCasinos(ctx context.Context, limit int) ([]models.Casino, error) {
	var casinos []models.Casino
	err := s.db.WithContext(ctx).
		Where("is_tracked = ? AND last_offer_check IS NOT NULL", true).
		Order("last_offer_check ASC, id ASC").
		Limit(limit).
		Find(&casinos).Error
	return casinos, err
}

// MarkOfferCheck implements reconcile.CasinoStore.
func (s *Store) MarkOfferCheck(ctx context.Context, casinoIDs []string, at time.Time) error {
	if len(casinoIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Casino{}).
		Where("id IN ?", casinoIDs).
		Update("last_offer_check", at).Error
}

// OffersForCasino implements reconcile.OfferStore.
func (s *Store) OffersForCasino(ctx context.Context, casinoID, source string) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.WithContext(ctx).
		Where("casino_id = ? AND source = ?", casinoID, source).
		Order("creation_time ASC, id ASC").
		Find(&offers).Error
	return offers, err
}

// AllOffersForCasino returns every offer of a casino regardless of source.
func (s *Store) AllOffersForCasino(ctx context.Context, casinoID string, includeDeprecated bool) ([]models.Offer, error) {
	var offers []models.Offer
	q := s.db.WithContext(ctx).Where("casino_id = ?", casinoID)
	if !includeDeprecated {
		q = q.Where("is_deprecated = ?", false)
	}
	err := q.Order("creation_time ASC, id ASC").Find(&offers).Error
	return offers, err
}

// InsertOffer implements reconcile.OfferStore.
func (s *Store) InsertOffer(ctx context.Context, offer *models.Offer) error {
	return s.db.WithContext(ctx).Create(offer).Error
}

// UpdateOffer implements reconcile.OfferStore. Every mutable column is
// written, so that cleared values become NULL.
func (s *Store) UpdateOffer(ctx context.Context, id string, patch reconcile.OfferPatch) error {
	f := patch.Fields
	res := s.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"offer_name":           f.OfferName,
			"offer_type":           f.OfferType,
			"expected_deposit":     f.ExpectedDeposit,
			"expected_bonus":       f.ExpectedBonus,
			"description":          f.Description,
			"terms":                f.Terms,
			"valid_until":          f.ValidUntil,
			"wagering_requirement": f.WageringRequirement,
			"min_deposit":          f.MinDeposit,
			"max_bonus":            f.MaxBonus,
			"is_deprecated":        patch.IsDeprecated,
			"updated_at":           patch.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update offer %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Offer{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return reconcile.NewNotFoundError("offer", id)
		}
	}
	return nil
}

// DeprecateOffers implements reconcile.OfferStore.
func (s *Store) DeprecateOffers(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"is_deprecated": true, "updated_at": at}).Error
}
