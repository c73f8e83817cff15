// Package holidayapi provides the HTTP client for the upstream national
// holiday calendar API.
package holidayapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domain "holidayreminder/internal/domain/holiday"
)

const dateFormat = "2006-01-02"

// dateFormatLoose accepts the non-zero-padded dates the live feed sometimes
// emits (e.g. "2025-1-1").
const dateFormatLoose = "2006-1-2"

// DefaultTimeout bounds a single calendar API call.
const DefaultTimeout = 30 * time.Second

// Client fetches national holidays from the calendar API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given API base URL.
// PRE: baseURL is a valid URL; timeout > 0
// POST: Returns a ready-to-use client with a bounded request timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// apiHoliday is the wire shape of a single upstream entry.
type apiHoliday struct {
	HolidayName        string `json:"holiday_name"`
	HolidayDate        string `json:"holiday_date"`
	HolidayDescription string `json:"holiday_description"`
	IsNationalHoliday  bool   `json:"is_national_holiday"`
}

// Fetch retrieves the national holidays for a single year, sorted ascending
// by date. Entries not flagged as national holidays are discarded. Any
// network, HTTP, or parse failure fails the whole call; no partial data is
// returned — the caller decides whether to keep stale data.
// PRE: year is a four-digit year
// POST: Returns only national holidays, sorted ascending by date
func (c *Client) Fetch(ctx context.Context, year int) ([]domain.Holiday, error) {
	reqURL := fmt.Sprintf("%s?year=%d", c.baseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("holiday api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday api: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("holiday api: unexpected status %d for year %d", resp.StatusCode, year)
	}

	var entries []apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("holiday api: decode response: %w", err)
	}

	var holidays []domain.Holiday
	for _, e := range entries {
		if !e.IsNationalHoliday {
			continue
		}
		if strings.TrimSpace(e.HolidayName) == "" {
			return nil, fmt.Errorf("holiday api: entry for year %d is missing holiday_name", year)
		}
		date, err := parseDate(e.HolidayDate)
		if err != nil {
			return nil, fmt.Errorf("holiday api: invalid holiday_date %q: %w", e.HolidayDate, err)
		}
		holidays = append(holidays, domain.Holiday{
			Name:        e.HolidayName,
			Date:        date,
			Description: e.HolidayDescription,
		})
	}

	// The upstream order is not trusted.
	domain.SortByDate(holidays)

	slog.Info("holiday_api_event", "event", "holidays_fetched", "year", year, "count", len(holidays))
	return holidays, nil
}

// parseDate parses an upstream date, tolerating missing zero padding.
func parseDate(v string) (time.Time, error) {
	date, err := time.Parse(dateFormat, v)
	if err != nil {
		date, err = time.Parse(dateFormatLoose, v)
	}
	return date, err
}

// BaseURL returns the configured API base URL, reported on the status
// endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

