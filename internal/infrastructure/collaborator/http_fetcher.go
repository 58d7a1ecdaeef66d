// Package collaborator talks to the upstream ERP and CRM services an
// integration pulls records from.
package collaborator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openpoint/platform/internal/application/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps how much of a collaborator body is read
const maxResponseSize = 10 << 20

// HTTPFetcher performs collaborator GETs and counts the returned records.
type HTTPFetcher struct {
	client *http.Client
}

var _ runtime.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher builds a fetcher over client. A nil client gets a traced
// default whose timeout is a backstop; the engine sets per-call deadlines.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPFetcher{client: client}
}

// Fetch GETs url and expects a JSON array. Every failure wraps
// runtime.ErrCollaboratorUnavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (runtime.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return runtime.FetchResult{}, fmt.Errorf("%w: build request: %v", runtime.ErrCollaboratorUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return runtime.FetchResult{}, fmt.Errorf("%w: %v", runtime.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	result := runtime.FetchResult{StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return result, fmt.Errorf("%w: HTTP %d", runtime.ErrCollaboratorUnavailable, resp.StatusCode)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&records); err != nil {
		return result, fmt.Errorf("%w: body is not a JSON list: %v", runtime.ErrCollaboratorUnavailable, err)
	}
	if records == nil {
		return result, fmt.Errorf("%w: body is null", runtime.ErrCollaboratorUnavailable)
	}
	result.Records = len(records)
	return result, nil
}

// DefaultSources returns the primary-path collaborators in call order.
func DefaultSources(erpBaseURL, crmBaseURL string) []runtime.Source {
	return []runtime.Source{
		{Target: "erp-service", Label: "ERP service", Resource: "orders", URL: joinURL(erpBaseURL, "orders")},
		{Target: "crm-service", Label: "CRM service", Resource: "customers", URL: joinURL(crmBaseURL, "customers")},
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}
