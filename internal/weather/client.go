package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dokim/coordclient/internal/metrics"
	"github.com/dokim/coordclient/internal/models"
)

// DefaultBaseURL is the Open-Meteo forecast API.
const DefaultBaseURL = "https://api.open-meteo.com"

// Client fetches current-weather samples from Open-Meteo. No API key needed.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type currentResponse struct {
	Latitude       float64 `json:"latitude"`
	CurrentWeather *struct {
		WeatherCode int `json:"weathercode"`
	} `json:"current_weather"`
}

// FetchCurrent retrieves the current weather for a coordinate. Rate limits
// and server errors are retried briefly; everything else fails fast so the
// resolver can degrade to its default theme within a page load.
func (c *Client) FetchCurrent(ctx context.Context, lat, lng float64) (*models.WeatherSample, error) {
	url := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true", c.baseURL, lat, lng)

	started := time.Now()
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch weather: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("transient: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch weather: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.WeatherLookupLatency.Observe(time.Since(started).Seconds())

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if data.CurrentWeather == nil {
		metrics.WeatherLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("no current_weather in response")
	}

	metrics.WeatherLookupsTotal.WithLabelValues("ok").Inc()
	return &models.WeatherSample{
		Latitude:    data.Latitude,
		WeatherCode: data.CurrentWeather.WeatherCode,
	}, nil
}
