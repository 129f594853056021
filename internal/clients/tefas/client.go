// Package tefas provides a client for the TEFAS fund price API
package tefas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/varlik-app/varlik/internal/common"
	"github.com/varlik-app/varlik/internal/interfaces"
)

const (
	DefaultBaseURL   = "https://www.tefas.gov.tr"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// warmupPath establishes the session cookie the API endpoints expect.
	warmupPath = "/FonKarsilastirma.aspx"
	detailPath = "/api/DB/GetAllFundAnalyzeData"

	// priceWindowDays is how far back to ask for history; the latest record
	// in the window is the current unit price.
	priceWindowDays = 7
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		// TEFAS occasionally formats prices with a comma decimal separator.
		num, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Compile-time interface check
var _ interfaces.PriceSource = (*Client)(nil)

// Client implements PriceSource against the TEFAS fund comparison API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	warmed     bool
}

// NewClient creates a new TEFAS client
func NewClient(config *common.TefasConfig, logger *common.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	// The API refuses requests without the ASPX session cookie.
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.GetTimeout(),
			Jar:     jar,
		},
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

type fundAnalyzeResponse struct {
	Data []fundRecord `json:"data"`
}

type fundRecord struct {
	Code  string      `json:"FONKODU"`
	Title string      `json:"FONUNVAN"`
	Date  string      `json:"TARIH"`
	Price flexFloat64 `json:"FIYAT"`
}

// CurrentUnitPrice returns the latest unit price for a TEFAS fund code.
// An unknown or unpriced fund returns ok=false, not an error.
func (c *Client) CurrentUnitPrice(ctx context.Context, symbol string) (float64, bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, false, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, false, err
	}
	if err := c.warmup(ctx); err != nil {
		return 0, false, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -priceWindowDays)
	form := url.Values{
		"fonTip":   {"YAT"},
		"fonKod":   {symbol},
		"bastarih": {start.Format("2006-01-02")},
		"bittarih": {end.Format("2006-01-02")},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+detailPath, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.baseURL+warmupPath)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("TEFAS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, false, fmt.Errorf("TEFAS returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed fundAnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, false, fmt.Errorf("failed to decode TEFAS response: %w", err)
	}

	price, found := latestPrice(parsed.Data)
	if !found {
		c.logger.Debug().Str("fund", symbol).Msg("No TEFAS price in window")
		return 0, false, nil
	}
	return price, true, nil
}

// latestPrice picks the newest non-zero price from the history window.
// Records arrive in date order; scan from the end.
func latestPrice(records []fundRecord) (float64, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if p := float64(records[i].Price); p > 0 {
			return p, true
		}
	}
	return 0, false
}

func (c *Client) warmup(ctx context.Context) error {
	if c.warmed {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+warmupPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create warmup request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TEFAS warmup failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	c.warmed = true
	return nil
}
