package checks

import (
	"context"
	"fmt"
	"time"

	"offer-reconciler/core/models"

	"gorm.io/gorm"
)

// OrphanReport lists records whose parent is missing.
type OrphanReport struct {
	// CasinosWithoutState holds casinos whose state does not exist.
	CasinosWithoutState []string `json:"casinos_without_state"`
	// OffersWithoutCasino holds active offers whose casino does not exist.
	OffersWithoutCasino []string `json:"offers_without_casino"`
}

// Clean reports whether no orphan was found.
func (r *OrphanReport) Clean() bool {
	return len(r.CasinosWithoutState) == 0 && len(r.OffersWithoutCasino) == 0
}

// CheckOrphans finds casinos and active offers that reference missing parents.
func CheckOrphans(ctx context.Context, db *gorm.DB) (*OrphanReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &OrphanReport{CasinosWithoutState: []string{}, OffersWithoutCasino: []string{}}

	err := db.WithContext(ctx).
		Model(&models.Casino{}).
		Joins("LEFT JOIN states ON states.id = casinos.state_id").
		Where("states.id IS NULL").
		Order("casinos.id").
		Pluck("casinos.id", &report.CasinosWithoutState).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find casinos without state: %w", err)
	}

	err = db.WithContext(ctx).
		Model(&models.Offer{}).
		Joins("LEFT JOIN casinos ON casinos.id = offers.casino_id").
		Where("casinos.id IS NULL AND offers.is_deprecated = ?", false).
		Order("offers.id").
		Pluck("offers.id", &report.OffersWithoutCasino).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find offers without casino: %w", err)
	}

	return report, nil
}

// OfferDeprecator soft-deletes offers.
type OfferDeprecator interface {
	DeprecateOffers(ctx context.Context, ids []string, at time.Time) error
}

// FixOrphans deprecates the orphaned offers. Orphaned casinos are only reported.
func FixOrphans(ctx context.Context, store OfferDeprecator, report *OrphanReport, at time.Time) error {
	return store.DeprecateOffers(ctx, report.OffersWithoutCasino, at)
}
