// Package rates provides an exchange-rate client for the local/foreign pair
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/interfaces"
)

const (
	DefaultBaseURL   = "https://api.frankfurter.dev/v1"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Compile-time interface check
var _ interfaces.RateSource = (*Client)(nil)

// Client implements RateSource against the Frankfurter API. Rates are
// returned as local units per one foreign unit.
type Client struct {
	baseURL    string
	local      string
	foreign    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// NewClient creates a new rate client for the configured currency pair
func NewClient(config *common.RatesConfig, currencies common.CurrencyConfig, logger *common.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		local:   currencies.Local,
		foreign: currencies.Foreign,
		httpClient: &http.Client{
			Timeout: config.GetTimeout(),
		},
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// CurrentRate returns the latest local-per-foreign rate.
func (c *Client) CurrentRate(ctx context.Context) (float64, bool, error) {
	return c.fetch(ctx, "latest")
}

// HistoricalRate returns the rate as of a past date. The provider returns
// the closest earlier banking day for weekends and holidays.
func (c *Client) HistoricalRate(ctx context.Context, date time.Time) (float64, bool, error) {
	if date.IsZero() {
		return c.CurrentRate(ctx)
	}
	return c.fetch(ctx, date.Format("2006-01-02"))
}

func (c *Client) fetch(ctx context.Context, datePath string) (float64, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, false, err
	}

	endpoint := fmt.Sprintf("%s/%s?base=%s&symbols=%s", c.baseURL, datePath, c.foreign, c.local)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, false, fmt.Errorf("rate provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, false, fmt.Errorf("failed to decode rate response: %w", err)
	}

	value, ok := parsed.Rates[c.local]
	if !ok || value <= 0 {
		c.logger.Debug().Str("pair", c.foreign+c.local).Str("date", datePath).Msg("No rate in response")
		return 0, false, nil
	}
	return value, true, nil
}
