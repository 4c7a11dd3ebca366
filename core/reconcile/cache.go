package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"offer-reconciler/core/models"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// stateNames maps US abbreviations to the name used when a state is created lazily.
var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "DC": "District of Columbia",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho", "IL": "Illinois",
	"IN": "Indiana", "IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota",
	"TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia",
	"WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

// StateName returns the display name for an abbreviation, or the abbreviation itself.
func StateName(abbreviation string) string {
	abbr := strings.ToUpper(strings.TrimSpace(abbreviation))
	if name, ok := stateNames[abbr]; ok {
		return name
	}
	return abbr
}

type cachedState struct {
	state models.State
	built time.Time
}

// StateResolver resolves abbreviations to states, creating them on first reference.
// Resolved states are cached for ttl; concurrent resolutions of one key share a
// single lookup.
type StateResolver struct {
	store StateStore
	ttl   time.Duration
	now   func() time.Time

	mu     sync.RWMutex
	states map[string]cachedState
	sf     singleflight.Group
}

// NewStateResolver creates a resolver. A zero ttl disables caching.
func NewStateResolver(store StateStore, ttl time.Duration) *StateResolver {
	return &StateResolver{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		states: make(map[string]cachedState),
	}
}

// Resolve returns the state for abbreviation, inserting it if it does not exist yet.
func (r *StateResolver) Resolve(ctx context.Context, abbreviation string) (*models.State, error) {
	key := strings.ToUpper(strings.TrimSpace(abbreviation))
	if key == "" {
		return nil, fmt.Errorf("%w: state abbreviation is required", ErrInvalidInput)
	}

	// Fast path: fresh cache entry
	if state, ok := r.cached(key); ok {
		return state, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if state, ok := r.cached(key); ok {
			return state, nil
		}

		state, err := r.store.FindStateByAbbreviation(ctx, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to look up state %s: %w", key, err)
		}
		if state == nil {
			state = &models.State{
				ID:           uuid.NewString(),
				Name:         StateName(key),
				Abbreviation: key,
				CreationTime: r.now(),
			}
			if err := r.store.InsertState(ctx, state); err != nil {
				return nil, fmt.Errorf("failed to create state %s: %w", key, err)
			}
		}

		if r.ttl > 0 {
			r.mu.Lock()
			r.states[key] = cachedState{state: *state, built: r.now()}
			r.mu.Unlock()
		}
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	state := *result.(*models.State)
	return &state, nil
}

// Invalidate drops every cached state.
func (r *StateResolver) Invalidate() {
	r.mu.Lock()
	r.states = make(map[string]cachedState)
	r.mu.Unlock()
}

func (r *StateResolver) cached(key string) (*models.State, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	r.mu.RLock()
	entry, ok := r.states[key]
	r.mu.RUnlock()
	if !ok || r.now().Sub(entry.built) > r.ttl {
		return nil, false
	}
	state := entry.state
	return &state, true
}
