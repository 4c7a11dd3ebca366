package reconcile

import (
	"context"
	"time"

	"offer-reconciler/core/models"
)

// StateStore persists states.
type StateStore interface {
	// FindStateByAbbreviation returns the state with the given abbreviation
	// (case-insensitive), or an error matching ErrNotFound.
	FindStateByAbbreviation(ctx context.Context, abbreviation string) (*models.State, error)

	// InsertState stores a new state. The state's ID must be set.
	InsertState(ctx context.Context, state *models.State) error
}

// CasinoStore persists casinos.
type CasinoStore interface {
	// GetCasino returns a casino by ID, or an error matching ErrNotFound.
	GetCasino(ctx context.Context, id string) (*models.Casino, error)

	// CasinosByState returns every casino belonging to stateID, oldest first.
	CasinosByState(ctx context.Context, stateID string) ([]models.Casino, error)

	// InsertCasino stores a new casino. The casino's ID must be set.
	InsertCasino(ctx context.Context, casino *models.Casino) error

	// SetCasinoTracked patches the tracking flag.
	SetCasinoTracked(ctx context.Context, id string, tracked bool) error

	// UnresearchedCasinos returns up to limit casinos with the given tracking flag
	// whose last offer check is unset, oldest first.
	UnresearchedCasinos(ctx context.Context, tracked bool, limit int) ([]models.Casino, error)

	// StaleTrackedCasinos returns up to limit tracked casinos that have been
	// checked before, stalest check first.
	StaleTrackedCasinos(ctx context.Context, limit int) ([]models.Casino, error)

	// MarkOfferCheck sets the last offer check of the given casinos to at.
	MarkOfferCheck(ctx context.Context, casinoIDs []string, at time.Time) error
}

// OfferStore persists offers. Offers are never deleted.
type OfferStore interface {
	// OffersForCasino returns every offer (deprecated included) of a casino that
	// carries the given source tag, oldest first.
	OffersForCasino(ctx context.Context, casinoID, source string) ([]models.Offer, error)

	// InsertOffer stores a new offer. The offer's ID must be set.
	InsertOffer(ctx context.Context, offer *models.Offer) error

	// UpdateOffer overwrites the mutable fields of an offer.
	UpdateOffer(ctx context.Context, id string, patch OfferPatch) error

	// DeprecateOffers flags the given offers as deprecated.
	DeprecateOffers(ctx context.Context, ids []string, at time.Time) error
}

// Store is the persistence collaborator of the engine.
type Store interface {
	StateStore
	CasinoStore
	OfferStore
}

// OfferPatch is the full set of values written when an offer changes.
type OfferPatch struct {
	Fields       models.OfferFields
	IsDeprecated bool
	UpdatedAt    time.Time
}
