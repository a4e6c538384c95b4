package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/illmade-knight/place-picker/pkg/flow"
	"github.com/illmade-knight/place-picker/pkg/geolocation"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
)

// ErrRetryNotAllowed is returned by Retry unless the last run failed.
var ErrRetryNotAllowed = errors.New("retry is only allowed after a failed retrieval")

var errPositionPending = errors.New("position not available within the grace period")

const (
	fetchPlacesFallback = "The places could not be fetched"

	// DefaultGeolocationGrace bounds the wait for a position once the catalog
	// has arrived.
	DefaultGeolocationGrace = 5 * time.Second
)

// PlacesFetcher defines the interface for a component that can fetch the place catalog.
type PlacesFetcher interface {
	GetPlaces(ctx context.Context) ([]places.Place, error)
}

// AvailablePlaces retrieves the catalog and, when the device position is known
// in time, orders it by proximity.
type AvailablePlaces struct {
	fetcher PlacesFetcher
	locator geolocation.Locator
	grace   time.Duration
	logger  zerolog.Logger

	mu         sync.Mutex
	generation uint64
	result     flow.Result[[]places.Place]
	listener   func(flow.Result[[]places.Place])
}

// NewAvailablePlaces creates an idle retrieval flow. grace is how long to wait
// for the locator once the catalog has arrived: zero selects
// DefaultGeolocationGrace and a negative value uses only a position that is
// already available.
func NewAvailablePlaces(fetcher PlacesFetcher, locator geolocation.Locator, grace time.Duration, logger zerolog.Logger) *AvailablePlaces {
	if locator == nil {
		locator = geolocation.Unavailable{}
	}
	if grace == 0 {
		grace = DefaultGeolocationGrace
	}
	return &AvailablePlaces{
		fetcher: fetcher,
		locator: locator,
		grace:   grace,
		logger:  logger.With().Str("component", "available-places").Logger(),
		result:  flow.IdleResult[[]places.Place](),
	}
}

// OnChange registers fn to receive every state transition.
func (a *AvailablePlaces) OnChange(fn func(flow.Result[[]places.Place])) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = fn
}

// Result returns the current state of the flow.
func (a *AvailablePlaces) Result() flow.Result[[]places.Place] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Start runs the flow and returns its outcome. A run superseded by a newer
// run, by Close or by the cancellation of ctx leaves the visible state alone.
func (a *AvailablePlaces) Start(ctx context.Context) flow.Result[[]places.Place] {
	gen := a.begin()
	logger := a.logger.With().Uint64("run", gen).Logger()
	logger.Info().Msg("Fetching available places")

	located := make(chan locateOutcome, 1)
	go func() {
		pos, err := a.locator.Locate(ctx)
		located <- locateOutcome{pos: pos, err: err}
	}()

	catalog, err := a.fetcher.GetPlaces(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch available places")
		return a.finish(ctx, gen, flow.FailureResult[[]places.Place](err, fetchPlacesFallback))
	}
	if catalog == nil {
		catalog = []places.Place{}
	}

	if outcome := a.awaitPosition(ctx, located); outcome.err != nil {
		logger.Warn().Err(outcome.err).Int("count", len(catalog)).Msg("No position available, keeping backend order")
	} else {
		logger.Info().Stringer("position", outcome.pos).Int("count", len(catalog)).Msg("Sorting places by distance")
		catalog = places.SortByDistance(catalog, outcome.pos)
	}
	return a.finish(ctx, gen, flow.SuccessResult(catalog))
}

// Retry re-runs a failed retrieval.
func (a *AvailablePlaces) Retry(ctx context.Context) (flow.Result[[]places.Place], error) {
	a.mu.Lock()
	if !a.result.Failed() {
		current := a.result
		a.mu.Unlock()
		return current, ErrRetryNotAllowed
	}
	a.result = flow.IdleResult[[]places.Place]()
	a.mu.Unlock()
	return a.Start(ctx), nil
}

// Close abandons any run in flight; its eventual result is discarded.
func (a *AvailablePlaces) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
}

type locateOutcome struct {
	pos places.Coordinate
	err error
}

// awaitPosition waits for the locator to finish, at most for the grace period.
// A position arriving after that is dropped.
func (a *AvailablePlaces) awaitPosition(ctx context.Context, located <-chan locateOutcome) locateOutcome {
	if a.grace < 0 {
		select {
		case outcome := <-located:
			return outcome
		default:
			return locateOutcome{err: errPositionPending}
		}
	}

	timer := time.NewTimer(a.grace)
	defer timer.Stop()
	select {
	case outcome := <-located:
		return outcome
	case <-timer.C:
		return locateOutcome{err: errPositionPending}
	case <-ctx.Done():
		return locateOutcome{err: ctx.Err()}
	}
}

func (a *AvailablePlaces) begin() uint64 {
	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.result = flow.LoadingResult[[]places.Place]()
	listener := a.listener
	result := a.result
	a.mu.Unlock()

	if listener != nil {
		listener(result)
	}
	return gen
}

func (a *AvailablePlaces) finish(ctx context.Context, gen uint64, result flow.Result[[]places.Place]) flow.Result[[]places.Place] {
	a.mu.Lock()
	if gen != a.generation || ctx.Err() != nil {
		a.mu.Unlock()
		a.logger.Debug().Uint64("run", gen).Msg("Discarding result of abandoned run")
		return result
	}
	a.result = result
	listener := a.listener
	a.mu.Unlock()

	if listener != nil {
		listener(result)
	}
	return result
}
