package modelselect

import (
	"github.com/storechat/ragengine/config"
	"github.com/storechat/ragengine/plan"
	"github.com/storechat/ragengine/prompt"
	"github.com/storechat/ragengine/schema"
)

// Selection is the model and sampling parameters for one generation call.
type Selection struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Selector chooses model tier and parameters from plan entitlement, estimated
// context size and response mode. The monotone rule holds: a higher plan or a
// larger context never yields a lower-tier model.
type Selector struct {
	models config.ModelsConfig
}

func New(models config.ModelsConfig) *Selector {
	return &Selector{models: models}
}

// Temperature and max-token budgets are fixed per response mode.
var (
	temperatureByMode = map[prompt.Mode]float64{
		prompt.ModeDetailed: 0.7,
		prompt.ModeConcise:  0.3,
		prompt.ModeStandard: 0.5,
	}
	maxTokensByMode = map[prompt.Mode]int{
		prompt.ModeDetailed: 800,
		prompt.ModeConcise:  200,
		prompt.ModeStandard: 400,
	}
)

// Select picks the model for the given context window and plan tier.
func (s *Selector) Select(cw *schema.ContextWindow, planTier string, mode prompt.Mode) Selection {
	estimated := 0
	if cw != nil {
		estimated = cw.EstimatedTokens
	}
	rank := plan.TierRank(planTier)

	model := s.models.Economy
	switch {
	case rank >= plan.TierRank(plan.TierEnterprise) && estimated > s.models.LargeContextTokens:
		model = s.models.Top
	case rank >= plan.TierRank(plan.TierProfessional) || estimated > s.models.ModerateContextTokens:
		model = s.models.Standard
	}

	temp, ok := temperatureByMode[mode]
	if !ok {
		temp = temperatureByMode[prompt.ModeStandard]
	}
	maxTokens, ok := maxTokensByMode[mode]
	if !ok {
		maxTokens = maxTokensByMode[prompt.ModeStandard]
	}
	return Selection{Model: model, Temperature: temp, MaxTokens: maxTokens}
}
