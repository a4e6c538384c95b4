package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/illmade-knight/place-picker/app"
	"github.com/illmade-knight/place-picker/internal/clients"
	"github.com/illmade-knight/place-picker/internal/config"
	internalgeo "github.com/illmade-knight/place-picker/internal/geolocation"
	"github.com/illmade-knight/place-picker/pkg/flow"
	"github.com/illmade-knight/place-picker/pkg/geolocation"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocator(t *testing.T) {
	logger := zerolog.Nop()

	loc := newLocator(config.Config{Geolocation: config.ProviderStatic, Latitude: 1, Longitude: 2}, logger)
	pos, err := loc.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, places.Coordinate{Lat: 1, Lon: 2}, pos)

	assert.IsType(t, &internalgeo.GeoClue{}, newLocator(config.Config{Geolocation: config.ProviderGeoClue}, logger))
	assert.IsType(t, &internalgeo.Nominatim{}, newLocator(config.Config{Geolocation: config.ProviderNominatim, LocateQuery: "x"}, logger))
	assert.IsType(t, geolocation.Unavailable{}, newLocator(config.Config{Geolocation: config.ProviderNone}, logger))
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer

	printList(&buf, "Available Places", flow.SuccessResult([]places.Place{{ID: "p1", Name: "Berlin", Lat: 52.5, Lon: 13.4}}), "No places available.")
	printList(&buf, "Empty", flow.SuccessResult([]places.Place{}), "No places available.")
	printList(&buf, "Broken", flow.FailureResult[[]places.Place](errors.New("The places could not be fetched"), ""), "")

	out := buf.String()
	assert.Contains(t, out, "[p1] Berlin (52.50000,13.40000)")
	assert.Contains(t, out, "No places available.")
	assert.Contains(t, out, "error: The places could not be fetched")
}

func TestAddPlace(t *testing.T) {
	ctx := context.Background()
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[]}`))
	}))
	defer mockServer.Close()

	client := clients.NewPlacesServiceClient(mockServer.URL, time.Second, zerolog.Nop())
	application := app.New(client, geolocation.Unavailable{}, 0, zerolog.Nop())
	require.True(t, application.Picked.Load(ctx).Succeeded())
	available := flow.SuccessResult([]places.Place{{ID: "p1", Name: "Berlin"}})

	require.NoError(t, addPlace(ctx, application, available, "p1"))
	assert.Len(t, application.Picked.Places(), 1)

	assert.Error(t, addPlace(ctx, application, available, "missing"))
	assert.Error(t, addPlace(ctx, application, flow.FailureResult[[]places.Place](nil, "down"), "p1"))
}

func TestChangeList(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused when user places failed to load", func(t *testing.T) {
		// Arrange
		var puts int
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				puts++
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		client := clients.NewPlacesServiceClient(mockServer.URL, time.Second, zerolog.Nop())
		application := app.New(client, geolocation.Unavailable{}, 0, zerolog.Nop())
		defer application.Close()
		snap := app.Snapshot{
			Available: flow.SuccessResult([]places.Place{{ID: "p1", Name: "Berlin"}}),
			Picked:    application.Picked.Load(ctx),
		}
		require.True(t, snap.Picked.Failed())

		// Act
		addErr := changeList(ctx, application, snap, "p1", "")
		removeErr := changeList(ctx, application, snap, "", "p1")

		// Assert
		assert.Error(t, addErr)
		assert.Error(t, removeErr)
		assert.Zero(t, puts)
	})

	t.Run("No request is a no-op", func(t *testing.T) {
		assert.NoError(t, changeList(ctx, nil, app.Snapshot{}, "", ""))
	})
}
