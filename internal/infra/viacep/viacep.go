// Package viacep implements the derived address lookup: postal code in,
// address (state, city, ...) out. The public ViaCEP service answers HTML
// error pages for malformed codes, so the client refuses any body that
// starts with a markup tag instead of structured data.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/format"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("viacep")

const serviceName = "viacep"

// Client looks up Brazilian postal codes. Lookups go through a circuit
// breaker (the screens swallow lookup failures anyway, so an open breaker
// is invisible to the user) and a TTL cache keyed by sanitized CEP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cache      port.Cache[*domain.Address]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a ViaCEP client.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cache port.Cache[*domain.Address], metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// Lookup resolves a postal code. The dash mask is stripped before the call.
func (c *Client) Lookup(ctx context.Context, cep string) (*domain.Address, error) {
	ctx, span := tracer.Start(ctx, "ViaCEP.Lookup")
	defer span.End()

	sanitized := format.CEP(cep)
	span.SetAttributes(attribute.String("cep", sanitized))

	if sanitized == "" {
		return nil, fmt.Errorf("empty postal code")
	}

	if addr, ok := c.cache.Get(sanitized); ok {
		c.metrics.IncrCacheHit(serviceName)
		return addr, nil
	}
	c.metrics.IncrCacheMiss(serviceName)

	result, err := c.cb.Execute(func() (any, error) {
		return c.fetch(ctx, sanitized)
	})
	if err != nil {
		c.metrics.IncrExternalError(serviceName)
		return nil, err
	}

	addr := result.(*domain.Address)
	c.cache.Set(sanitized, addr)
	return addr, nil
}

func (c *Client) fetch(ctx context.Context, sanitized string) (*domain.Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, sanitized)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("viacep: request failed", zap.String("cep", sanitized), zap.Error(err))
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("viacep: non-200", zap.String("cep", sanitized), zap.Int("status", resp.StatusCode))
		return nil, &domain.ErrUpstreamStatus{Service: serviceName, Status: resp.StatusCode}
	}

	// Malformed codes come back as an HTML error page with a 200 status.
	if len(body) > 0 && body[0] == '<' {
		c.logger.Warn("viacep: markup response", zap.String("cep", sanitized))
		return nil, &domain.ErrMarkupResponse{Service: serviceName}
	}

	var payload struct {
		domain.Address
		Erro bool `json:"erro"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("decode address: %w", err)}
	}
	if payload.Erro {
		return nil, fmt.Errorf("viacep: unknown postal code %s", sanitized)
	}

	c.logger.Debug("viacep: lookup OK", zap.String("cep", sanitized), zap.String("uf", payload.UF))
	return &payload.Address, nil
}
