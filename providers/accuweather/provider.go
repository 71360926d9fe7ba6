package accuweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"forecast-service/datasource"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public AccuWeather data service
	DefaultBaseURL = "http://dataservice.accuweather.com"
	// DefaultTimeout bounds each outbound call
	DefaultTimeout = 10 * time.Second

	// CitySearchAPI and FiveDayForecastAPI tag diagnostics with the API that failed
	CitySearchAPI      = "City Search"
	FiveDayForecastAPI = "5 Days of Daily Forecasts"

	maxResponseBytes = 1 << 20
)

// Provider talks to the AccuWeather locations and forecasts APIs.
// It implements both datasource.LocationSource and datasource.ForecastSource.
type Provider struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// Ensure Provider implements both source interfaces
var (
	_ datasource.LocationSource = (*Provider)(nil)
	_ datasource.ForecastSource = (*Provider)(nil)
)

// Option configures a Provider
type Option func(*Provider)

// WithBaseURL points the provider at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-call deadline
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a new AccuWeather provider
func NewProvider(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: p.timeout}
	}
	return p
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "AccuWeather"
}

// get performs one GET against the provider and applies the shared status
// branching. The response body is always closed before returning.
func (p *Provider) get(ctx context.Context, api, path string, params url.Values) ([]byte, *datasource.UpstreamError) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params.Set("apikey", p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, p.fail(&datasource.UpstreamError{
			Kind:   datasource.KindInvalidRequest,
			API:    api,
			Reason: "failed to create request",
			Err:    redact(err),
		})
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.fail(datasource.FromError(api, redact(err)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		ue := datasource.FromError(api, redact(err))
		ue.StatusCode = resp.StatusCode
		return nil, p.fail(ue)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, p.fail(&datasource.UpstreamError{
			Kind:       datasource.KindUnauthorized,
			API:        api,
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		})
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, p.fail(&datasource.UpstreamError{
			Kind:       datasource.KindHTTPFailure,
			API:        api,
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		})
	}

	return body, nil
}

// parseFailure builds and logs a parse failure carrying the bounded raw body
func (p *Provider) parseFailure(api string, body []byte, cause error) *datasource.UpstreamError {
	return p.fail(&datasource.UpstreamError{
		Kind:    datasource.KindParseFailure,
		API:     api,
		Reason:  "unexpected response body",
		RawBody: datasource.Truncate(body),
		Err:     cause,
	})
}

// fail emits the diagnostic record for a non-success outcome and returns it
func (p *Provider) fail(ue *datasource.UpstreamError) *datasource.UpstreamError {
	level := zerolog.ErrorLevel
	msg := fmt.Sprintf("Error occurred during call to AccuWeather %s API", ue.API)

	switch ue.Kind {
	case datasource.KindUnauthorized:
		msg = fmt.Sprintf("AccuWeather API key is not authorized to call %s API", ue.API)
	case datasource.KindParseFailure:
		msg = fmt.Sprintf("Error occurred during deserialization of AccuWeather %s API", ue.API)
	case datasource.KindCanceled:
		level = zerolog.WarnLevel
		msg = fmt.Sprintf("Call to AccuWeather %s API was canceled", ue.API)
	case datasource.KindHTTPFailure:
		if ue.StatusCode == http.StatusServiceUnavailable {
			msg = "Error occurred during call to AccuWeather API. API key may be exceeding service limits"
		}
	}

	event := p.logger.WithLevel(level).Str("api", ue.API).Stringer("kind", ue.Kind)
	if ue.StatusCode != 0 {
		event = event.Int("status", ue.StatusCode)
	}
	if ue.Reason != "" {
		event = event.Str("reason", ue.Reason)
	}
	if ue.RawBody != "" {
		event = event.Str("body", ue.RawBody)
	}
	if ue.Err != nil {
		event = event.Err(ue.Err)
	}
	event.Msg(msg)

	return ue
}

// redact drops the request URL from transport errors; it carries the API key
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
