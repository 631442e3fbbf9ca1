// Package location provides device-position lookups for the ${HERE}
// placeholder.
package location

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/gorewood/tack/internal/expand"
)

// Provider names accepted in configuration.
const (
	ProviderNone   = "none"
	ProviderStatic = "static"
	ProviderHTTP   = "http"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// ErrUnavailable is returned by the "none" provider.
var ErrUnavailable = errors.New("location provider not configured")

// Config selects and configures a location provider.
type Config struct {
	Provider  string  `yaml:"provider"  env:"TACK_LOCATION_PROVIDER"`
	Latitude  float64 `yaml:"latitude"  env:"TACK_LOCATION_LAT"`
	Longitude float64 `yaml:"longitude" env:"TACK_LOCATION_LON"`

	// URL is queried by the http provider; the response must be JSON.
	URL string `yaml:"url" env:"TACK_LOCATION_URL"`
	// LatitudePath and LongitudePath are gjson paths into the response.
	LatitudePath  string        `yaml:"latitude_path"`
	LongitudePath string        `yaml:"longitude_path"`
	Timeout       time.Duration `yaml:"timeout" env:"TACK_LOCATION_TIMEOUT"`
}

// DefaultConfig returns a config with no provider and ip-api style paths.
func DefaultConfig() Config {
	return Config{
		Provider:      ProviderNone,
		LatitudePath:  "lat",
		LongitudePath: "lon",
		Timeout:       defaultTimeout,
	}
}

// Validate checks the provider name and its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderNone:
		return nil
	case ProviderStatic:
		return checkRange(expand.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude})
	case ProviderHTTP:
		if c.URL == "" {
			return errors.New("location.url is required for the http provider")
		}
		if c.LatitudePath == "" || c.LongitudePath == "" {
			return errors.New("location.latitude_path and location.longitude_path are required for the http provider")
		}
		return nil
	default:
		return fmt.Errorf("unknown location provider %q (want none, static or http)", c.Provider)
	}
}

// New builds the configured locator. A nil client uses http.DefaultClient.
func New(cfg Config, client *http.Client) (expand.Locator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderStatic:
		return Static{Coords: expand.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude}}, nil
	case ProviderHTTP:
		return NewHTTP(cfg, client), nil
	default:
		return Unavailable{}, nil
	}
}

// Static always reports the same position.
type Static struct {
	Coords expand.Coordinates
}

// Locate returns the configured coordinates.
func (s Static) Locate(ctx context.Context) (expand.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return expand.Coordinates{}, err
	}
	return s.Coords, nil
}

// Unavailable fails every lookup with ErrUnavailable.
type Unavailable struct{}

// Locate returns ErrUnavailable.
func (Unavailable) Locate(context.Context) (expand.Coordinates, error) {
	return expand.Coordinates{}, ErrUnavailable
}

// HTTP looks the position up from a JSON endpoint such as an IP
// geolocation service.
type HTTP struct {
	url     string
	latPath string
	lonPath string
	timeout time.Duration
	client  *http.Client
}

// NewHTTP creates an HTTP locator. Zero timeout uses the default.
func NewHTTP(cfg Config, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTP{
		url:     cfg.URL,
		latPath: cfg.LatitudePath,
		lonPath: cfg.LongitudePath,
		timeout: timeout,
		client:  client,
	}
}

// Locate queries the endpoint and extracts the coordinates.
func (h *HTTP) Locate(ctx context.Context) (expand.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return expand.Coordinates{}, fmt.Errorf("building location request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return expand.Coordinates{}, fmt.Errorf("querying %s: %w", h.url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return expand.Coordinates{}, fmt.Errorf("querying %s: unexpected status %s", h.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return expand.Coordinates{}, fmt.Errorf("reading location response: %w", err)
	}

	return parseCoordinates(body, h.latPath, h.lonPath)
}

func parseCoordinates(body []byte, latPath, lonPath string) (expand.Coordinates, error) {
	if !gjson.ValidBytes(body) {
		return expand.Coordinates{}, errors.New("location response is not valid JSON")
	}

	lat := gjson.GetBytes(body, latPath)
	lon := gjson.GetBytes(body, lonPath)
	if !lat.Exists() || !lon.Exists() {
		return expand.Coordinates{}, fmt.Errorf("location response missing %q or %q", latPath, lonPath)
	}

	coords := expand.Coordinates{Latitude: lat.Float(), Longitude: lon.Float()}
	if err := checkRange(coords); err != nil {
		return expand.Coordinates{}, err
	}
	return coords, nil
}

func checkRange(c expand.Coordinates) error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	return nil
}
