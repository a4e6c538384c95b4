package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/illmade-knight/place-picker/app"
	"github.com/illmade-knight/place-picker/internal/clients"
	"github.com/illmade-knight/place-picker/internal/config"
	internalgeo "github.com/illmade-knight/place-picker/internal/geolocation"
	"github.com/illmade-knight/place-picker/pkg/flow"
	"github.com/illmade-knight/place-picker/pkg/geolocation"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
)

func main() {
	debug := flag.Bool("debug", false, "enable human-readable debug logging")
	addID := flag.String("add", "", "ID of an available place to add to your list")
	removeID := flag.String("remove", "", "ID of a place to remove from your list")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if *debug {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// 2. Instantiate Networking Clients
	client := clients.NewPlacesServiceClient(cfg.BackendURL, cfg.HTTPTimeout, logger)
	locator := newLocator(cfg, logger)
	logger.Info().Str("backend", cfg.BackendURL).Str("geolocation", cfg.Geolocation).Msg("Clients initialized")

	// 3. Instantiate the Main Application Orchestrator
	application := app.New(client, locator, cfg.GeolocationGrace, logger)
	defer application.Close()

	snap := application.Start(ctx)

	// 4. Apply the requested change, if any
	exitCode := 0
	if err := changeList(ctx, application, snap, *addID, *removeID); err != nil {
		logger.Error().Err(err).Str("add", *addID).Str("remove", *removeID).Msg("Updating places failed")
		exitCode = 1
	}

	printList(os.Stdout, "I'd like to visit ...", pickedResult(snap.Picked, application.Picked.Places()), "Select the places you would like to visit below.")
	printList(os.Stdout, "Available Places", snap.Available, "No places available.")

	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}

func newLocator(cfg config.Config, logger zerolog.Logger) geolocation.Locator {
	switch cfg.Geolocation {
	case config.ProviderStatic:
		return geolocation.Static{Position: places.Coordinate{Lat: cfg.Latitude, Lon: cfg.Longitude}}
	case config.ProviderGeoClue:
		return internalgeo.NewGeoClue(cfg.GeoClueDesktopID, logger)
	case config.ProviderNominatim:
		return internalgeo.NewNominatim(cfg.NominatimServer, cfg.LocateQuery, logger)
	default:
		return geolocation.Unavailable{}
	}
}

// changeList applies the -add or -remove request. Nothing is sent when the
// user's list could not be loaded, since the PUT would replace it wholesale.
func changeList(ctx context.Context, application *app.App, snap app.Snapshot, addID, removeID string) error {
	if addID == "" && removeID == "" {
		return nil
	}
	if snap.Picked.Failed() {
		return fmt.Errorf("user places are not loaded: %s", snap.Picked.Message)
	}
	if addID != "" {
		return addPlace(ctx, application, snap.Available, addID)
	}
	_, err := application.Picked.Remove(ctx, removeID)
	return err
}

func addPlace(ctx context.Context, application *app.App, available flow.Result[[]places.Place], id string) error {
	if !available.Succeeded() {
		return fmt.Errorf("available places are not loaded: %s", available.Message)
	}
	for _, p := range available.Data {
		if p.ID == id {
			_, err := application.Picked.Add(ctx, p)
			return err
		}
	}
	return fmt.Errorf("place %s is not in the catalog", id)
}

// pickedResult reflects mutations made after the initial load.
func pickedResult(loaded flow.Result[[]places.Place], current []places.Place) flow.Result[[]places.Place] {
	if loaded.Failed() {
		return loaded
	}
	return flow.SuccessResult(current)
}

func printList(w io.Writer, title string, result flow.Result[[]places.Place], fallback string) {
	fmt.Fprintf(w, "\n%s\n", title)
	switch {
	case result.Failed():
		fmt.Fprintf(w, "  error: %s\n", result.Message)
	case len(result.Data) == 0:
		fmt.Fprintf(w, "  %s\n", fallback)
	default:
		for _, p := range result.Data {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", p.ID, p.Name, p.Coordinate())
		}
	}
}
