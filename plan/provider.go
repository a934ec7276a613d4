package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storechat/ragengine/common/httpx"
	"github.com/storechat/ragengine/config"
)

// Known plan tiers in ascending capability order. Unknown tiers rank as the
// entry tier.
const (
	TierStarter      = "starter"
	TierProfessional = "professional"
	TierEnterprise   = "enterprise"
)

// Provider is the subscription/entitlement collaborator contract.
type Provider interface {
	// CurrentPlan returns the caller's plan tier.
	CurrentPlan(ctx context.Context) (string, error)
	// IsFeatureEnabled reports whether a feature flag is on for the plan.
	IsFeatureEnabled(ctx context.Context, feature string) (bool, error)
}

// TierRank orders plan tiers for monotone capability comparisons.
func TierRank(tier string) int {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case TierEnterprise:
		return 2
	case TierProfessional:
		return 1
	default:
		return 0
	}
}

// NewProvider creates a plan provider from config.
func NewProvider(cfg config.PlanConfig, httpCfg config.HTTPClientConfig) (Provider, error) {
	switch cfg.Provider {
	case "static", "":
		return NewStatic(cfg.Tier, cfg.Features), nil
	case "http":
		cli := httpx.New(httpx.Options{
			Timeout:            time.Duration(httpCfg.TimeoutMs) * time.Millisecond,
			Retry:              httpCfg.Retry,
			BackoffMin:         time.Duration(httpCfg.BackoffMinMs) * time.Millisecond,
			BackoffMax:         time.Duration(httpCfg.BackoffMaxMs) * time.Millisecond,
			HostAllowlist:      httpCfg.HostAllowlist,
			MaxConsecutiveFail: httpCfg.MaxConsecutiveFailures,
			CircuitOpen:        time.Duration(httpCfg.CircuitOpenSeconds) * time.Second,
		})
		return NewHTTP(cfg.Endpoint, cfg.APIKey, cli), nil
	default:
		return nil, fmt.Errorf("unknown plan provider: %s", cfg.Provider)
	}
}
