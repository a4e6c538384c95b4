// Package app provides the central orchestrator for the place picker.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/illmade-knight/place-picker/pkg/flow"
	"github.com/illmade-knight/place-picker/pkg/geolocation"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
)

// Backend is everything the application needs from the places service.
type Backend interface {
	PlacesFetcher
	UserPlacesStore
}

// App is the central application struct. It holds the flows the presentation
// layer drives.
type App struct {
	Available *AvailablePlaces
	Picked    *UserPlaces
	Logger    zerolog.Logger
}

// New creates a new, fully initialized App.
func New(backend Backend, locator geolocation.Locator, geolocationGrace time.Duration, logger zerolog.Logger) *App {
	return &App{
		Available: NewAvailablePlaces(backend, locator, geolocationGrace, logger),
		Picked:    NewUserPlaces(backend, logger),
		Logger:    logger,
	}
}

// Snapshot is the state of both flows after Start.
type Snapshot struct {
	Available flow.Result[[]places.Place]
	Picked    flow.Result[[]places.Place]
}

// Start loads the catalog and the user's list concurrently, the way the page
// does on first render.
func (a *App) Start(ctx context.Context) Snapshot {
	a.Logger.Info().Msg("Starting place picker")

	var (
		wg   sync.WaitGroup
		snap Snapshot
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		snap.Available = a.Available.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Picked = a.Picked.Load(ctx)
	}()
	wg.Wait()
	return snap
}

// Close abandons work in flight.
func (a *App) Close() {
	a.Available.Close()
}
