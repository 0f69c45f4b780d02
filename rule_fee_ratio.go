package portfolio

import "fmt"

// FeeRatioInitialInvestment checks that the total fees paid do not exceed a
// threshold share of the committed funds.
type FeeRatioInitialInvestment struct {
	fees       Money // base currency
	investment Money // committed funds, base currency
}

func NewFeeRatioInitialInvestment(fees, investment Money) *FeeRatioInitialInvestment {
	return &FeeRatioInitialInvestment{fees: fees, investment: investment}
}

func (r *FeeRatioInitialInvestment) Name() string {
	return "Fees in relation to initial investment"
}

func (r *FeeRatioInitialInvestment) Settings(s Settings) RuleSettings {
	return ruleSettingsFor(s, "feeRatioInitialInvestment", 0.01)
}

func (r *FeeRatioInitialInvestment) Evaluate(rs RuleSettings) RuleResult {
	if r.investment.IsZero() {
		return RuleResult{Evaluation: "There is no initial investment", Value: true}
	}
	ratio := r.fees.Amount().Div(r.investment.Amount()).InexactFloat64()
	if ratio > rs.Threshold {
		return RuleResult{
			Evaluation: fmt.Sprintf("The fees do exceed %.2f%% of your initial investment (%.2f%%)",
				rs.Threshold*100, ratio*100),
			Value: false,
		}
	}
	return RuleResult{
		Evaluation: fmt.Sprintf("The fees are within %.2f%% of your initial investment (%.2f%%)",
			rs.Threshold*100, ratio*100),
		Value: true,
	}
}
