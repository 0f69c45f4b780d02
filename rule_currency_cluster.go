package portfolio

import "fmt"

// CurrencyClusterRiskBaseCurrency checks that at least a threshold share of
// the current investment is denominated in the base currency.
type CurrencyClusterRiskBaseCurrency struct {
	resolver  *ExchangeRateResolver
	positions map[string]Position
}

func NewCurrencyClusterRiskBaseCurrency(resolver *ExchangeRateResolver, positions map[string]Position) *CurrencyClusterRiskBaseCurrency {
	return &CurrencyClusterRiskBaseCurrency{resolver: resolver, positions: positions}
}

func (r *CurrencyClusterRiskBaseCurrency) Name() string {
	return "Investment: Base Currency"
}

func (r *CurrencyClusterRiskBaseCurrency) Settings(s Settings) RuleSettings {
	return ruleSettingsFor(s, "currencyClusterRiskBaseCurrency", 0.5)
}

func (r *CurrencyClusterRiskBaseCurrency) Evaluate(rs RuleSettings) RuleResult {
	groups, total := investmentByCurrency(r.positions, r.resolver, rs.BaseCurrency)
	if total.IsZero() {
		return RuleResult{Evaluation: "There is no current investment", Value: true}
	}
	share := groups[rs.BaseCurrency].Amount().Div(total.Amount()).InexactFloat64()
	if share < rs.Threshold {
		return RuleResult{
			Evaluation: fmt.Sprintf("Less than %.0f%% of your current investment is in %s (%.2f%%)",
				rs.Threshold*100, rs.BaseCurrency, share*100),
			Value: false,
		}
	}
	return RuleResult{
		Evaluation: fmt.Sprintf("Over %.0f%% of your current investment is in %s (%.2f%%)",
			rs.Threshold*100, rs.BaseCurrency, share*100),
		Value: true,
	}
}

// CurrencyClusterRiskCurrentInvestment checks that no single currency
// concentrates more than a threshold share of the current investment.
type CurrencyClusterRiskCurrentInvestment struct {
	resolver  *ExchangeRateResolver
	positions map[string]Position
}

func NewCurrencyClusterRiskCurrentInvestment(resolver *ExchangeRateResolver, positions map[string]Position) *CurrencyClusterRiskCurrentInvestment {
	return &CurrencyClusterRiskCurrentInvestment{resolver: resolver, positions: positions}
}

func (r *CurrencyClusterRiskCurrentInvestment) Name() string {
	return "Investment"
}

func (r *CurrencyClusterRiskCurrentInvestment) Settings(s Settings) RuleSettings {
	return ruleSettingsFor(s, "currencyClusterRiskCurrentInvestment", 0.5)
}

func (r *CurrencyClusterRiskCurrentInvestment) Evaluate(rs RuleSettings) RuleResult {
	groups, total := investmentByCurrency(r.positions, r.resolver, rs.BaseCurrency)
	if total.IsZero() {
		return RuleResult{Evaluation: "There is no current investment", Value: true}
	}
	currency, amount := dominantGroup(groups)
	share := amount.Amount().Div(total.Amount()).InexactFloat64()
	if share > rs.Threshold {
		return RuleResult{
			Evaluation: fmt.Sprintf("Over %.0f%% of your current investment is in %s (%.2f%%)",
				rs.Threshold*100, currency, share*100),
			Value: false,
		}
	}
	return RuleResult{
		Evaluation: fmt.Sprintf("The major part of your current investment is in %s (%.2f%%) and does not exceed %.0f%%",
			currency, share*100, rs.Threshold*100),
		Value: true,
	}
}

// investmentByCurrency converts every position's native cost basis to the
// base currency and groups the result by native currency.
func investmentByCurrency(positions map[string]Position, resolver *ExchangeRateResolver, baseCurrency string) (map[string]Money, Money) {
	groups := make(map[string]Money)
	total := M(0, baseCurrency)
	for _, position := range positions {
		if !position.Quantity.IsPositive() {
			continue
		}
		amount := M(resolver.Convert(position.InvestmentInOriginalCurrency, baseCurrency).Money.Amount(), baseCurrency)
		groups[position.Currency] = groups[position.Currency].Add(amount)
		total = total.Add(amount)
	}
	return groups, total
}

// dominantGroup returns the group holding the largest amount.
func dominantGroup(groups map[string]Money) (string, Money) {
	var dominant string
	var max Money
	for key, amount := range groups {
		if dominant == "" || amount.GreaterThan(max) {
			dominant, max = key, amount
		}
	}
	return dominant, max
}
