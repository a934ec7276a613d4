package plan

import "context"

// StaticProvider serves a fixed tier and feature set from config. It is the
// default for single-tenant deployments and tests.
type StaticProvider struct {
	tier     string
	features map[string]bool
}

func NewStatic(tier string, features map[string]bool) *StaticProvider {
	if tier == "" {
		tier = TierStarter
	}
	copied := make(map[string]bool, len(features))
	for k, v := range features {
		copied[k] = v
	}
	return &StaticProvider{tier: tier, features: copied}
}

func (p *StaticProvider) CurrentPlan(ctx context.Context) (string, error) {
	return p.tier, nil
}

func (p *StaticProvider) IsFeatureEnabled(ctx context.Context, feature string) (bool, error) {
	return p.features[feature], nil
}
