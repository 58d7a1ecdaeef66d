package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openpoint/platform/internal/domain/connector"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ProbeResult is the outcome of one liveness check
type ProbeResult struct {
	Success bool
	Message string
}

// ProberConfig holds the probe timeout and the simulated delays
type ProberConfig struct {
	HTTPTimeout   time.Duration
	DatabaseDelay time.Duration
	SAPDelay      time.Duration
	DefaultDelay  time.Duration
	// Client defaults to an otelhttp-instrumented client
	Client *http.Client
}

// DefaultProberConfig returns the standard timings
func DefaultProberConfig() ProberConfig {
	return ProberConfig{
		HTTPTimeout:   10 * time.Second,
		DatabaseDelay: 500 * time.Millisecond,
		SAPDelay:      time.Second,
		DefaultDelay:  500 * time.Millisecond,
	}
}

// Prober runs the type-specific liveness check for a connector. Only HTTP
// connectors reach the network; other types are simulated.
type Prober struct {
	cfg    ProberConfig
	client *http.Client
}

// NewProber creates a Prober
func NewProber(cfg ProberConfig) *Prober {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultProberConfig().HTTPTimeout
	}
	return &Prober{cfg: cfg, client: client}
}

// Probe never returns an error: every failure becomes an unsuccessful
// result whose message is the failure text.
func (p *Prober) Probe(ctx context.Context, c *connector.Connector) ProbeResult {
	switch c.Type {
	case connector.TypeHTTP:
		return p.probeHTTP(ctx, c.ConfigString("base_url"))
	case connector.TypeDatabase:
		if err := wait(ctx, p.cfg.DatabaseDelay); err != nil {
			return ProbeResult{Message: err.Error()}
		}
		return ProbeResult{Success: true, Message: "Connection successful"}
	case connector.TypeSAP:
		if err := wait(ctx, p.cfg.SAPDelay); err != nil {
			return ProbeResult{Message: err.Error()}
		}
		if c.HasConfig("host") && c.HasConfig("username") {
			return ProbeResult{Success: true, Message: "SAP connection established"}
		}
		return ProbeResult{Message: "Missing required configuration"}
	case connector.TypeSalesforce, connector.TypeSOAP, connector.TypeKafka, connector.TypeFTP,
		connector.TypeEmail, connector.TypeS3, connector.TypeAzureBlob:
		if err := wait(ctx, p.cfg.DefaultDelay); err != nil {
			return ProbeResult{Message: err.Error()}
		}
		return ProbeResult{Success: true, Message: "Connection test passed"}
	default:
		return ProbeResult{Message: fmt.Sprintf("unsupported connector type %q", c.Type)}
	}
}

func (p *Prober) probeHTTP(ctx context.Context, baseURL string) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.HTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return ProbeResult{Message: err.Error()}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return ProbeResult{Message: err.Error()}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return ProbeResult{
		Success: resp.StatusCode < http.StatusInternalServerError,
		Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
