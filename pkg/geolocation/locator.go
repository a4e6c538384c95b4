// Package geolocation defines the single-shot "where am I" capability used to
// sort the catalog by proximity, plus the trivial providers.
package geolocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/illmade-knight/place-picker/pkg/places"
)

// ErrUnavailable is returned by providers that cannot produce a position at all.
var ErrUnavailable = errors.New("geolocation unavailable")

// Locator resolves the device's current position once.
type Locator interface {
	Locate(ctx context.Context) (places.Coordinate, error)
}

// Error reports a failed position request. It is never fatal to a flow.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geolocation via %s failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Static always reports the same coordinate.
type Static struct {
	Position places.Coordinate
}

func (s Static) Locate(ctx context.Context) (places.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return places.Coordinate{}, &Error{Provider: "static", Err: err}
	}
	return s.Position, nil
}

// Unavailable never produces a position, as when the user denies permission.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (places.Coordinate, error) {
	return places.Coordinate{}, &Error{Provider: "none", Err: ErrUnavailable}
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (places.Coordinate, error)

func (f LocatorFunc) Locate(ctx context.Context) (places.Coordinate, error) {
	return f(ctx)
}
