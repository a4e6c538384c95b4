package app

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/illmade-knight/place-picker/internal/clients"
	"github.com/illmade-knight/place-picker/pkg/flow"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
)

const loadUserPlacesFallback = "There was an error loading user places"

// ErrNotLoaded is returned by Add and Remove before the list has been loaded.
// Replacing an unknown backend list would discard the places it holds.
var ErrNotLoaded = errors.New("user places have not been loaded")

// UserPlacesStore defines the interface for the backend holding the user's list.
type UserPlacesStore interface {
	GetUserPlaces(ctx context.Context) ([]places.Place, error)
	UpdateUserPlaces(ctx context.Context, ps []places.Place) error
}

// UserPlaces owns the user's picked list. Changes are applied locally first
// and then replicated to the backend; a rejected change is rolled back.
type UserPlaces struct {
	store  UserPlacesStore
	list   *flow.Optimistic[[]places.Place]
	loaded atomic.Bool
	logger zerolog.Logger
}

// NewUserPlaces creates an empty user list bound to store.
func NewUserPlaces(store UserPlacesStore, logger zerolog.Logger) *UserPlaces {
	return &UserPlaces{
		store:  store,
		list:   flow.NewOptimistic([]places.Place{}),
		logger: logger.With().Str("component", "user-places").Logger(),
	}
}

// Loaded reports whether the list has been loaded from the backend.
func (u *UserPlaces) Loaded() bool {
	return u.loaded.Load()
}

// Places returns the current list, including changes still being synced.
func (u *UserPlaces) Places() []places.Place {
	return u.list.Get()
}

// Load replaces the local list with the backend's copy.
func (u *UserPlaces) Load(ctx context.Context) flow.Result[[]places.Place] {
	ps, err := u.store.GetUserPlaces(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to load user places")
		return flow.FailureResult[[]places.Place](err, loadUserPlacesFallback)
	}
	if ps == nil {
		ps = []places.Place{}
	}
	u.list.Set(ps)
	u.loaded.Store(true)
	u.logger.Info().Int("count", len(ps)).Msg("Loaded user places")
	return flow.SuccessResult(ps)
}

// Add puts p at the front of the list. Adding a place that is already listed
// changes nothing. If the backend rejects the new list the previous list is
// restored and an *clients.UpdateError is returned. Add fails with
// ErrNotLoaded until Load has succeeded.
func (u *UserPlaces) Add(ctx context.Context, p places.Place) ([]places.Place, error) {
	return u.mutate(ctx, "add", p.ID, func(cur []places.Place) ([]places.Place, bool) {
		return places.WithPlace(cur, p)
	})
}

// Remove drops the place with the given ID. Removing an unknown ID changes
// nothing. Rollback follows the same rules as Add.
func (u *UserPlaces) Remove(ctx context.Context, id string) ([]places.Place, error) {
	return u.mutate(ctx, "remove", id, func(cur []places.Place) ([]places.Place, bool) {
		return places.WithoutPlace(cur, id)
	})
}

func (u *UserPlaces) mutate(ctx context.Context, op, placeID string, apply func([]places.Place) ([]places.Place, bool)) ([]places.Place, error) {
	logger := u.logger.With().
		Str("mutation_id", uuid.NewString()).
		Str("op", op).
		Str("place_id", placeID).
		Logger()

	if !u.Loaded() {
		logger.Warn().Msg("Refusing to change user places before they are loaded")
		return u.list.Get(), ErrNotLoaded
	}

	result, err := u.list.Mutate(ctx, apply, u.store.UpdateUserPlaces)
	if err != nil {
		logger.Error().Err(err).Msg("Backend rejected user places, rolled back")
		var updateErr *clients.UpdateError
		if !errors.As(err, &updateErr) {
			err = &clients.UpdateError{Err: err}
		}
		return result, err
	}
	logger.Info().Int("count", len(result)).Msg("User places updated")
	return result, nil
}
