package portfolio

import "fmt"

// PlatformClusterRiskSinglePlatform checks that the current investment is not
// held at a single platform.
type PlatformClusterRiskSinglePlatform struct {
	positions map[string]Position
}

func NewPlatformClusterRiskSinglePlatform(positions map[string]Position) *PlatformClusterRiskSinglePlatform {
	return &PlatformClusterRiskSinglePlatform{positions: positions}
}

func (r *PlatformClusterRiskSinglePlatform) Name() string {
	return "Single Platform"
}

func (r *PlatformClusterRiskSinglePlatform) Settings(s Settings) RuleSettings {
	return ruleSettingsFor(s, "platformClusterRiskSinglePlatform", 0)
}

func (r *PlatformClusterRiskSinglePlatform) Evaluate(rs RuleSettings) RuleResult {
	groups, _ := investmentByPlatform(r.positions, rs.BaseCurrency)
	switch len(groups) {
	case 0:
		return RuleResult{Evaluation: "No platform information is available", Value: true}
	case 1:
		return RuleResult{Evaluation: "All of your current investment is at a single platform", Value: false}
	default:
		return RuleResult{
			Evaluation: fmt.Sprintf("Your current investment is spread across %d platforms", len(groups)),
			Value:      true,
		}
	}
}

// PlatformClusterRiskCurrentInvestment checks that no single platform
// concentrates more than a threshold share of the current investment.
type PlatformClusterRiskCurrentInvestment struct {
	positions map[string]Position
}

func NewPlatformClusterRiskCurrentInvestment(positions map[string]Position) *PlatformClusterRiskCurrentInvestment {
	return &PlatformClusterRiskCurrentInvestment{positions: positions}
}

func (r *PlatformClusterRiskCurrentInvestment) Name() string {
	return "Platform Investment"
}

func (r *PlatformClusterRiskCurrentInvestment) Settings(s Settings) RuleSettings {
	return ruleSettingsFor(s, "platformClusterRiskCurrentInvestment", 0.5)
}

func (r *PlatformClusterRiskCurrentInvestment) Evaluate(rs RuleSettings) RuleResult {
	groups, total := investmentByPlatform(r.positions, rs.BaseCurrency)
	if total.IsZero() {
		return RuleResult{Evaluation: "No platform information is available", Value: true}
	}
	platform, amount := dominantGroup(groups)
	share := amount.Amount().Div(total.Amount()).InexactFloat64()
	if share > rs.Threshold {
		return RuleResult{
			Evaluation: fmt.Sprintf("Over %.0f%% of your current investment is at %s (%.2f%%)",
				rs.Threshold*100, platform, share*100),
			Value: false,
		}
	}
	return RuleResult{
		Evaluation: fmt.Sprintf("The major part of your current investment is at %s (%.2f%%) and does not exceed %.0f%%",
			platform, share*100, rs.Threshold*100),
		Value: true,
	}
}

// investmentByPlatform groups the positions' base-currency cost bases by the
// platform they were traded on. Orders recorded without a platform do not
// contribute a group.
func investmentByPlatform(positions map[string]Position, baseCurrency string) (map[string]Money, Money) {
	groups := make(map[string]Money)
	total := M(0, baseCurrency)
	for _, position := range positions {
		if !position.Quantity.IsPositive() {
			continue
		}
		for platform, amount := range position.Platforms {
			groups[platform] = groups[platform].Add(amount)
			total = total.Add(M(amount.Amount(), baseCurrency))
		}
	}
	return groups, total
}
