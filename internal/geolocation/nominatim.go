package geolocation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/illmade-knight/place-picker/pkg/geolocation"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/muesli/gominatim"
	"github.com/rs/zerolog"
)

const DefaultNominatimServer = "https://nominatim.openstreetmap.org/"

// gominatim keeps its server in package state.
var nominatimMu sync.Mutex

// Nominatim resolves a configured address or place name to a coordinate. It
// stands in for device geolocation on hosts without a positioning service.
type Nominatim struct {
	server string
	query  string
	logger zerolog.Logger
}

// NewNominatim creates a locator for query. An empty server selects the
// public OpenStreetMap instance.
func NewNominatim(server, query string, logger zerolog.Logger) *Nominatim {
	if strings.TrimSpace(server) == "" {
		server = DefaultNominatimServer
	}
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	return &Nominatim{
		server: server,
		query:  query,
		logger: logger.With().Str("locator", "nominatim").Logger(),
	}
}

type nominatimAnswer struct {
	pos places.Coordinate
	err error
}

// Locate geocodes the configured query and returns the best match.
func (n *Nominatim) Locate(ctx context.Context) (places.Coordinate, error) {
	if strings.TrimSpace(n.query) == "" {
		return places.Coordinate{}, &geolocation.Error{Provider: "nominatim", Err: errors.New("no query configured")}
	}

	// gominatim has no context support; abandon the lookup when ctx ends.
	answer := make(chan nominatimAnswer, 1)
	go func() {
		pos, err := n.search()
		answer <- nominatimAnswer{pos: pos, err: err}
	}()

	select {
	case <-ctx.Done():
		return places.Coordinate{}, &geolocation.Error{Provider: "nominatim", Err: ctx.Err()}
	case a := <-answer:
		if a.err != nil {
			return places.Coordinate{}, &geolocation.Error{Provider: "nominatim", Err: a.err}
		}
		n.logger.Debug().Str("query", n.query).Stringer("position", a.pos).Msg("Resolved position")
		return a.pos, nil
	}
}

func (n *Nominatim) search() (places.Coordinate, error) {
	nominatimMu.Lock()
	defer nominatimMu.Unlock()

	gominatim.SetServer(n.server)
	q := gominatim.SearchQuery{Q: n.query, Limit: 1}
	// Get reports an empty answer as an error of its own.
	res, err := q.Get()
	if err != nil {
		return places.Coordinate{}, fmt.Errorf("nominatim search for %q failed: %w", n.query, err)
	}

	lat, err := strconv.ParseFloat(res[0].Lat, 64)
	if err != nil {
		return places.Coordinate{}, fmt.Errorf("invalid latitude %q: %w", res[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(res[0].Lon, 64)
	if err != nil {
		return places.Coordinate{}, fmt.Errorf("invalid longitude %q: %w", res[0].Lon, err)
	}
	return places.Coordinate{Lat: lat, Lon: lon}, nil
}
