package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/storechat/ragengine/common/httpx"
)

// HTTPProvider queries an entitlement service.
// GET {endpoint}/plan           -> {"tier":"professional"}
// GET {endpoint}/features/{key} -> {"enabled":true}
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *httpx.Client
}

func NewHTTP(endpoint, apiKey string, client *httpx.Client) *HTTPProvider {
	if client == nil {
		client = httpx.New(httpx.Options{})
	}
	return &HTTPProvider{endpoint: strings.TrimRight(endpoint, "/"), apiKey: apiKey, client: client}
}

func (p *HTTPProvider) CurrentPlan(ctx context.Context) (string, error) {
	var out struct {
		Tier string `json:"tier"`
	}
	if err := p.getJSON(ctx, p.endpoint+"/plan", &out); err != nil {
		return "", fmt.Errorf("fetch plan failed, err: %w", err)
	}
	if out.Tier == "" {
		return TierStarter, nil
	}
	return out.Tier, nil
}

func (p *HTTPProvider) IsFeatureEnabled(ctx context.Context, feature string) (bool, error) {
	var out struct {
		Enabled bool `json:"enabled"`
	}
	u := p.endpoint + "/features/" + url.PathEscape(feature)
	if err := p.getJSON(ctx, u, &out); err != nil {
		return false, fmt.Errorf("fetch feature flag failed, err: %w", err)
	}
	return out.Enabled, nil
}

func (p *HTTPProvider) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
