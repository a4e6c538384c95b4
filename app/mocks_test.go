package app_test

import (
	"context"
	"sync"

	"github.com/illmade-knight/place-picker/pkg/places"
)

// --- Mock Dependencies ---

type mockBackend struct {
	GetPlacesFunc        func(ctx context.Context) ([]places.Place, error)
	GetUserPlacesFunc    func(ctx context.Context) ([]places.Place, error)
	UpdateUserPlacesFunc func(ctx context.Context, ps []places.Place) error

	mu      sync.Mutex
	updates [][]places.Place
}

func (m *mockBackend) GetPlaces(ctx context.Context) ([]places.Place, error) {
	return m.GetPlacesFunc(ctx)
}

func (m *mockBackend) GetUserPlaces(ctx context.Context) ([]places.Place, error) {
	return m.GetUserPlacesFunc(ctx)
}

func (m *mockBackend) UpdateUserPlaces(ctx context.Context, ps []places.Place) error {
	m.mu.Lock()
	m.updates = append(m.updates, ps)
	m.mu.Unlock()
	if m.UpdateUserPlacesFunc == nil {
		return nil
	}
	return m.UpdateUserPlacesFunc(ctx, ps)
}

func (m *mockBackend) Updates() [][]places.Place {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]places.Place(nil), m.updates...)
}

func placeIDs(ps []places.Place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

var (
	berlin = places.Place{ID: "p1", Name: "Berlin", Lat: 52.5, Lon: 13.4}
	paris  = places.Place{ID: "p2", Name: "Paris", Lat: 48.8, Lon: 2.3}
	lake   = places.Place{ID: "p3", Name: "Lake", Lat: 47.0, Lon: 8.3}
)
