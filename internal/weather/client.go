// Package weather fetches the current day's weather from an upstream API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/internal/apperr"
)

const (
	// DefaultTimeout is the total request timeout.
	DefaultTimeout = 5 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 3 * time.Second

	dateLayout = "01-02"
)

// Forecast is one day's entry in the upstream response.
type Forecast struct {
	Date    string `json:"date"` // MM-dd
	Weather string `json:"weather"`
}

// Client reads today's weather from an HTTP endpoint returning a JSON
// array of forecasts.
type Client struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPClient creates an HTTP client for upstream weather calls.
// It does not follow redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: timeout,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewClient creates a weather client for url.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	return &Client{url: url, httpClient: httpClient, now: time.Now}
}

// GetTodayWeather returns the weather for the current date.
// Every failure is reported as a server error.
func (c *Client) GetTodayWeather(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", apperr.Server("failed to build weather request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Server("failed to fetch weather data", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Server(fmt.Sprintf("failed to fetch weather data, status code: %d", resp.StatusCode), nil)
	}

	var forecasts []Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecasts); err != nil {
		return "", apperr.Server("failed to decode weather data", err)
	}
	if len(forecasts) == 0 {
		return "", apperr.Server("weather data is empty", nil)
	}

	today := c.now().Format(dateLayout)
	for _, f := range forecasts {
		if f.Date == today {
			return f.Weather, nil
		}
	}

	return "", apperr.Server("no weather data found for today", nil)
}
