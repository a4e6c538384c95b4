// Package clients provides HTTP clients for communicating with external services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/rs/zerolog"
)

const (
	placesPath     = "/places"
	userPlacesPath = "/user-places"

	// DefaultTimeout applies when no timeout is configured.
	DefaultTimeout = 10 * time.Second
)

// placesEnvelope is the body shape shared by every places endpoint.
type placesEnvelope struct {
	Places []places.Place `json:"places" validate:"dive"`
}

var errMissingPlaces = errors.New(`response has no "places" field`)

// PlacesServiceClient is responsible for all communication with the places backend.
type PlacesServiceClient struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewPlacesServiceClient creates a new client for the places backend. A zero
// timeout selects DefaultTimeout.
func NewPlacesServiceClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *PlacesServiceClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PlacesServiceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		validate: validator.New(),
		logger:   logger.With().Str("client", "places-service").Logger(),
	}
}

// GetPlaces fetches the catalog of available places.
func (c *PlacesServiceClient) GetPlaces(ctx context.Context) ([]places.Place, error) {
	return c.getPlaces(ctx, "get places", placesPath, "The places could not be fetched")
}

// GetUserPlaces fetches the user's picked places, most recent first.
func (c *PlacesServiceClient) GetUserPlaces(ctx context.Context) ([]places.Place, error) {
	return c.getPlaces(ctx, "get user places", userPlacesPath, "Failed to load user places")
}

// UpdateUserPlaces replaces the user's list on the backend with ps.
func (c *PlacesServiceClient) UpdateUserPlaces(ctx context.Context, ps []places.Place) error {
	if ps == nil {
		ps = []places.Place{}
	}
	payload, err := json.Marshal(placesEnvelope{Places: ps})
	if err != nil {
		return &UpdateError{Err: fmt.Errorf("failed to marshal user places: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+userPlacesPath, bytes.NewReader(payload))
	if err != nil {
		return &UpdateError{Err: fmt.Errorf("failed to create update user places request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := c.tag(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpdateError{Err: &NetworkError{Op: "update user places", Err: err}}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpdateError{Err: &StatusError{
			Op:         "update user places",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("places service returned unexpected status code: %d", resp.StatusCode),
		}}
	}

	c.logger.Info().Str("request_id", requestID).Int("count", len(ps)).Msg("Successfully updated user places")
	return nil
}

func (c *PlacesServiceClient) getPlaces(ctx context.Context, op, path, failMessage string) ([]places.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	requestID := c.tag(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Str("request_id", requestID).Int("status", resp.StatusCode).Msgf("Failed to %s", op)
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Message: failMessage}
	}

	env, err := c.decodePlaces(resp.Body)
	if err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}

	c.logger.Info().Str("request_id", requestID).Int("count", len(env.Places)).Msgf("Successfully completed %s", op)
	return env.Places, nil
}

// decodePlaces reads a places envelope. A missing "places" field is an error,
// an explicit null is an empty list.
func (c *PlacesServiceClient) decodePlaces(body io.Reader) (placesEnvelope, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return placesEnvelope{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return placesEnvelope{}, err
	}
	if _, ok := fields["places"]; !ok {
		return placesEnvelope{}, errMissingPlaces
	}

	var env placesEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return placesEnvelope{}, err
	}
	if env.Places == nil {
		env.Places = []places.Place{}
	}
	if err := c.validate.Struct(env); err != nil {
		return placesEnvelope{}, err
	}
	return env, nil
}

// tag stamps the request with a fresh correlation ID.
func (c *PlacesServiceClient) tag(req *http.Request) string {
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)
	return id
}
