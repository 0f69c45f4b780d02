package portfolio

// Report groups rule evaluations by risk category.
type Report struct {
	Rules map[string][]RuleResult `json:"rules"`
}

// GetReport evaluates every risk rule against the portfolio's current state
// and groups the results by category.
func (p *Portfolio) GetReport(s Settings) Report {
	if s.BaseCurrency == "" {
		s.BaseCurrency = p.baseCurrency
	}
	today := p.now()
	positions := p.GetPositions(today)
	fees := p.GetFees(today)
	committed := p.GetCommittedFunds()

	return Report{
		Rules: map[string][]RuleResult{
			"currencyClusterRisk": EvaluateRules([]Rule{
				NewCurrencyClusterRiskBaseCurrency(p.resolver, positions),
				NewCurrencyClusterRiskCurrentInvestment(p.resolver, positions),
			}, s),
			"platformClusterRisk": EvaluateRules([]Rule{
				NewPlatformClusterRiskSinglePlatform(positions),
				NewPlatformClusterRiskCurrentInvestment(positions),
			}, s),
			"fees": EvaluateRules([]Rule{
				NewFeeRatioInitialInvestment(fees, committed),
			}, s),
		},
	}
}
