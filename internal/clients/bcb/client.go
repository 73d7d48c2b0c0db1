// Package bcb provides a client for the Banco Central do Brasil SGS API
package bcb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
// SGS serves "valor" as a decimal string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://api.bcb.gov.br"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	sgsDateLayout = "02/01/2006"
)

// Client implements the BCBClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new SGS client. The API is public; no key is needed.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("BCB SGS API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("BCB SGS API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// sgsObservation represents one row of an SGS series response
type sgsObservation struct {
	Date  string      `json:"data"`
	Value flexFloat64 `json:"valor"`
}

// FetchSeries retrieves one SGS series over [from, to], oldest first.
// Rows whose date does not parse are skipped.
func (c *Client) FetchSeries(ctx context.Context, code int, from, to time.Time) ([]models.SeriesPoint, error) {
	path := fmt.Sprintf("/dados/serie/bcdata.sgs.%d/dados", code)

	params := url.Values{}
	params.Set("formato", "json")
	params.Set("dataInicial", from.Format(sgsDateLayout))
	params.Set("dataFinal", to.Format(sgsDateLayout))

	var rows []sgsObservation
	if err := c.get(ctx, path, params, &rows); err != nil {
		return nil, err
	}

	points := make([]models.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(sgsDateLayout, row.Date)
		if err != nil {
			c.logger.Debug().Int("series", code).Str("date", row.Date).Msg("Skipping SGS row with unparseable date")
			continue
		}
		points = append(points, models.SeriesPoint{
			Date:  date,
			Value: float64(row.Value),
		})
	}

	c.logger.Debug().Int("series", code).Int("points", len(points)).Msg("Fetched SGS series")

	return points, nil
}

// Ensure Client implements BCBClient
var _ interfaces.BCBClient = (*Client)(nil)
