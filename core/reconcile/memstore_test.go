package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"offer-reconciler/core/models"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store used by the engine tests.
type memStore struct {
	mu      sync.Mutex
	states  map[string]models.State
	casinos map[string]models.Casino
	offers  map[string]models.Offer
	order   int

	// failure injection
	offersErr      map[string]error
	insertErr      map[string]error
	offerInsertErr map[string]error
	markErr        error

	stateInserts int
	marked       []string
	writes       int
}

func newMemStore() *memStore {
	return &memStore{
		states:    make(map[string]models.State),
		casinos:   make(map[string]models.Casino),
		offers:    make(map[string]models.Offer),
		offersErr:      make(map[string]error),
		insertErr:      make(map[string]error),
		offerInsertErr: make(map[string]error),
	}
}

// tick returns increasing creation times so that "oldest first" is deterministic.
func (s *memStore) tick() time.Time {
	s.order++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.order) * time.Second)
}

func (s *memStore) addCasino(c models.Casino) models.Casino {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreationTime.IsZero() {
		c.CreationTime = s.tick()
	}
	s.casinos[c.ID] = c
	return c
}

func (s *memStore) addOffer(o models.Offer) models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.CreationTime.IsZero() {
		o.CreationTime = s.tick()
	}
	s.offers[o.ID] = o
	return o
}

func (s *memStore) offer(id string) models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offers[id]
}

func (s *memStore) casino(id string) models.Casino {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.casinos[id]
}

func (s *memStore) FindStateByAbbreviation(ctx context.Context, abbreviation string) (*models.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		if strings.EqualFold(st.Abbreviation, abbreviation) {
			st := st
			return &st, nil
		}
	}
	return nil, NewNotFoundError("state", abbreviation)
}

func (s *memStore) InsertState(ctx context.Context, state *models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateInserts++
	s.states[state.ID] = *state
	return nil
}

func (s *memStore) GetCasino(ctx context.Context, id string) (*models.Casino, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.casinos[id]
	if !ok {
		return nil, NewNotFoundError("casino", id)
	}
	return &c, nil
}

func (s *memStore) CasinosByState(ctx context.Context, stateID string) ([]models.Casino, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Casino
	for _, c := range s.casinos {
		if c.StateID == stateID {
			out = append(out, c)
		}
	}
	sortCasinos(out)
	return out, nil
}

func (s *memStore) InsertCasino(ctx context.Context, casino *models.Casino) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertErr[casino.Name]; err != nil {
		return err
	}
	if casino.CreationTime.IsZero() {
		casino.CreationTime = s.tick()
	}
	s.casinos[casino.ID] = *casino
	return nil
}

func (s *memStore) SetCasinoTracked(ctx context.Context, id string, tracked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.casinos[id]
	if !ok {
		return NewNotFoundError("casino", id)
	}
	c.IsTracked = tracked
	s.casinos[id] = c
	return nil
}

func (s *memStore) UnresearchedCasinos(ctx context.Context, tracked bool, limit int) ([]models.Casino, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Casino
	for _, c := range s.casinos {
		if c.IsTracked == tracked && c.LastOfferCheck == nil {
			out = append(out, c)
		}
	}
	sortCasinos(out)
	return limitCasinos(out, limit), nil
}

func (s *memStore) StaleTrackedCasinos(ctx context.Context, limit int) ([]models.Casino, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Casino
	for _, c := range s.casinos {
		if c.IsTracked && c.LastOfferCheck != nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastOfferCheck.Equal(*out[j].LastOfferCheck) {
			return out[i].LastOfferCheck.Before(*out[j].LastOfferCheck)
		}
		return out[i].ID < out[j].ID
	})
	return limitCasinos(out, limit), nil
}

func (s *memStore) MarkOfferCheck(ctx context.Context, casinoIDs []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	for _, id := range casinoIDs {
		c := s.casinos[id]
		t := at
		c.LastOfferCheck = &t
		s.casinos[id] = c
		s.marked = append(s.marked, id)
	}
	return nil
}

func (s *memStore) OffersForCasino(ctx context.Context, casinoID, source string) ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.offersErr[casinoID]; err != nil {
		return nil, err
	}
	var out []models.Offer
	for _, o := range s.offers {
		if o.CasinoID == casinoID && o.Source == source {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreationTime.Equal(out[j].CreationTime) {
			return out[i].CreationTime.Before(out[j].CreationTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) InsertOffer(ctx context.Context, offer *models.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.offerInsertErr[offer.OfferName]; err != nil {
		return err
	}
	s.writes++
	if offer.CreationTime.IsZero() {
		offer.CreationTime = s.tick()
	}
	s.offers[offer.ID] = *offer
	return nil
}

func (s *memStore) UpdateOffer(ctx context.Context, id string, patch OfferPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return NewNotFoundError("offer", id)
	}
	s.writes++
	o.OfferFields = patch.Fields
	o.IsDeprecated = patch.IsDeprecated
	o.UpdatedAt = patch.UpdatedAt
	s.offers[id] = o
	return nil
}

func (s *memStore) DeprecateOffers(ctx context.Context, ids []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		o := s.offers[id]
		s.writes++
		o.IsDeprecated = true
		o.UpdatedAt = at
		s.offers[id] = o
	}
	return nil
}

// snapshot returns every offer of a casino sorted by name, for state comparisons.
func (s *memStore) snapshot(casinoID string) []models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Offer
	for _, o := range s.offers {
		if o.CasinoID == casinoID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortCasinos(cs []models.Casino) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CreationTime.Equal(cs[j].CreationTime) {
			return cs[i].CreationTime.Before(cs[j].CreationTime)
		}
		return cs[i].ID < cs[j].ID
	})
}

func limitCasinos(cs []models.Casino, limit int) []models.Casino {
	if limit >= 0 && len(cs) > limit {
		return cs[:limit]
	}
	return cs
}

func money(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}
