// Package exchange converts amounts between currencies using the last
// quotation of a public exchange rate API.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		logger:  logging.OrNop(logger).Named("exchange"),
	}
}

type quote struct {
	Ask string `json:"ask"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Rate returns the last ask quotation for one unit of from in to.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrCurrencyConversion, err)
	}

	url := fmt.Sprintf("%s/json/last/%s-%s", c.baseURL, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrCurrencyConversion, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("rate request failed", zap.String("pair", from+to), zap.Error(err))
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrCurrencyConversion, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: read response: %v", domain.ErrCurrencyConversion, err)
	}
	c.logger.Debug("rate fetched",
		zap.String("pair", from+to),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrCurrencyConversion, apiErr.Message)
		}
		return decimal.Zero, fmt.Errorf("%w: unexpected status %d", domain.ErrCurrencyConversion, resp.StatusCode)
	}

	var quotes map[string]quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode response: %v", domain.ErrCurrencyConversion, err)
	}
	q, ok := quotes[from+to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no quotation for %s-%s", domain.ErrCurrencyConversion, from, to)
	}
	ask, err := decimal.NewFromString(q.Ask)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad quotation %q", domain.ErrCurrencyConversion, q.Ask)
	}
	return ask, nil
}

// Convert returns amount in from converted to to, rounded to cents.
func (c *Client) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	ask, err := c.Rate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(amount).Mul(ask).Round(2).InexactFloat64(), nil
}
