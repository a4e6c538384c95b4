// Package geolocation provides Locator implementations backed by external
// systems: the GeoClue2 D-Bus service and the Nominatim geocoder.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/illmade-knight/place-picker/pkg/geolocation"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
)

const (
	geoService    = "org.freedesktop.GeoClue2"
	managerPath   = dbus.ObjectPath("/org/freedesktop/GeoClue2/Manager")
	managerIface  = "org.freedesktop.GeoClue2.Manager"
	clientIface   = "org.freedesktop.GeoClue2.Client"
	locationIface = "org.freedesktop.GeoClue2.Location"
	propsIface    = "org.freedesktop.DBus.Properties"

	// GClueAccuracyLevel "exact".
	accuracyExact = uint32(8)
)

var errNoFix = errors.New("no position fix received")

// GeoClue asks the GeoClue2 service on the system bus for a single position.
// GeoClue only answers clients whose DesktopID names an installed .desktop
// file carrying X-Geoclue-2-Client=true.
type GeoClue struct {
	desktopID string
	logger    zerolog.Logger
}

// NewGeoClue creates a GeoClue locator.
func NewGeoClue(desktopID string, logger zerolog.Logger) *GeoClue {
	return &GeoClue{
		desktopID: desktopID,
		logger:    logger.With().Str("locator", "geoclue").Logger(),
	}
}

// Locate starts a GeoClue client, waits for the first fix and stops it again.
// Without a deadline on ctx it waits up to 30 seconds.
func (g *GeoClue) Locate(ctx context.Context) (places.Coordinate, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	pos, err := g.locate(ctx)
	if err != nil {
		return places.Coordinate{}, &geolocation.Error{Provider: "geoclue", Err: err}
	}
	g.logger.Debug().Stringer("position", pos).Msg("Received GeoClue fix")
	return pos, nil
}

func (g *GeoClue) locate(ctx context.Context) (places.Coordinate, error) {
	bus, err := dbus.ConnectSystemBus()
	if err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer bus.Close()

	var clientPath dbus.ObjectPath
	manager := bus.Object(geoService, managerPath)
	if err := manager.CallWithContext(ctx, managerIface+".CreateClient", 0).Store(&clientPath); err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to create geoclue client: %w", err)
	}
	client := bus.Object(geoService, clientPath)

	setProp := func(name string, val interface{}) error {
		return client.CallWithContext(ctx, propsIface+".Set", 0, clientIface, name, dbus.MakeVariant(val)).Err
	}
	if err := setProp("DesktopId", g.desktopID); err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to set DesktopId: %w", err)
	}
	if err := setProp("RequestedAccuracyLevel", accuracyExact); err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to set accuracy: %w", err)
	}

	matchRule := fmt.Sprintf("type='signal',interface='%s',member='LocationUpdated',path='%s'", clientIface, clientPath)
	if err := bus.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, matchRule).Err; err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to subscribe to location updates: %w", err)
	}
	signals := make(chan *dbus.Signal, 4)
	bus.Signal(signals)

	if err := client.CallWithContext(ctx, clientIface+".Start", 0).Err; err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to start geoclue client: %w", err)
	}
	defer client.Call(clientIface+".Stop", 0)

	for {
		select {
		case <-ctx.Done():
			return places.Coordinate{}, fmt.Errorf("%w: %v", errNoFix, ctx.Err())
		case sig, ok := <-signals:
			if !ok || sig == nil {
				return places.Coordinate{}, errors.New("dbus signal channel closed")
			}
			if sig.Path != clientPath || sig.Name != clientIface+".LocationUpdated" || len(sig.Body) < 2 {
				continue
			}
			locPath, ok := sig.Body[1].(dbus.ObjectPath)
			if !ok || locPath == "" {
				continue
			}
			return readLocation(ctx, bus, locPath)
		}
	}
}

func readLocation(ctx context.Context, bus *dbus.Conn, locPath dbus.ObjectPath) (places.Coordinate, error) {
	var props map[string]dbus.Variant
	call := bus.Object(geoService, locPath).CallWithContext(ctx, propsIface+".GetAll", 0, locationIface)
	if err := call.Store(&props); err != nil {
		return places.Coordinate{}, fmt.Errorf("failed to read location properties: %w", err)
	}

	lat, latOK := props["Latitude"].Value().(float64)
	lon, lonOK := props["Longitude"].Value().(float64)
	if !latOK || !lonOK {
		return places.Coordinate{}, errors.New("location properties missing latitude or longitude")
	}
	return places.Coordinate{Lat: lat, Lon: lon}, nil
}
