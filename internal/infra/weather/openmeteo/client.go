package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yanqian/brew-advisor/internal/domain/weather"
	"github.com/yanqian/brew-advisor/pkg/metrics"
)

const (
	defaultBaseURL          = "https://api.open-meteo.com/v1/forecast"
	defaultTimeout          = 10 * time.Second
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
)

// Config controls the Open-Meteo client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Location and Country label observations; Open-Meteo does no reverse geocoding.
	Location string
	Country  string
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// Client fetches current conditions from Open-Meteo.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[weather.Observation]
	logger     *slog.Logger
}

// NewClient builds an API client guarded by a circuit breaker.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "weather.openmeteo")

	breaker := gobreaker.NewCircuitBreaker[weather.Observation](gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("weather breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     log,
	}
}

// Current returns the latest observation at the coordinate.
func (c *Client) Current(ctx context.Context, latitude, longitude float64) (weather.Observation, error) {
	obs, err := c.breaker.Execute(func() (weather.Observation, error) {
		return c.fetch(ctx, latitude, longitude)
	})
	switch {
	case err == nil:
		metrics.WeatherLookups.WithLabelValues("success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.WeatherLookups.WithLabelValues("rejected").Inc()
	default:
		metrics.WeatherLookups.WithLabelValues("failure").Inc()
	}
	return obs, err
}

func (c *Client) fetch(ctx context.Context, latitude, longitude float64) (weather.Observation, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	query.Set("timezone", "auto")
	endpoint := c.cfg.BaseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Observation{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return weather.Observation{}, fmt.Errorf("decode weather response: %w", err)
	}
	if raw.Current == nil || raw.Current.Temperature == nil || raw.Current.WeatherCode == nil {
		return weather.Observation{}, errors.New("weather response missing current conditions")
	}

	obs := weather.Observation{
		Code:        *raw.Current.WeatherCode,
		Temperature: roundHalfUp(*raw.Current.Temperature),
		Location:    c.cfg.Location,
		Country:     c.cfg.Country,
	}
	if raw.Current.Humidity != nil {
		obs.Humidity = *raw.Current.Humidity
	}
	return obs, nil
}

// roundHalfUp rounds halves toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

type apiResponse struct {
	Current *currentBlock `json:"current"`
}

type currentBlock struct {
	Time        string   `json:"time"`
	Temperature *float64 `json:"temperature_2m"`
	Humidity    *float64 `json:"relative_humidity_2m"`
	WeatherCode *int     `json:"weather_code"`
}
