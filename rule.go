package portfolio

import "fmt"

// RuleSettings is the resolved configuration a rule is evaluated with.
type RuleSettings struct {
	IsActive     bool
	BaseCurrency string
	Threshold    float64
}

// RuleResult is the outcome of one rule evaluation: a verdict plus a
// human-readable explanation embedding the computed figures.
type RuleResult struct {
	Name       string `json:"name"`
	Evaluation string `json:"evaluation"`
	Value      bool   `json:"value"`
}

// Rule is an independently configured risk check. Rules are stateless across
// evaluations and never mutate portfolio state.
type Rule interface {
	Name() string
	// Settings resolves the rule's configuration from the user settings,
	// applying the rule's defaults when unset.
	Settings(s Settings) RuleSettings
	Evaluate(rs RuleSettings) RuleResult
}

// EvaluateRules evaluates every active rule and collects the results. A
// failure inside one rule never aborts the evaluation of the others: a
// panicking rule yields a failed result instead.
func EvaluateRules(rules []Rule, s Settings) []RuleResult {
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		rs := rule.Settings(s)
		if !rs.IsActive {
			continue
		}
		results = append(results, evaluateIsolated(rule, rs))
	}
	return results
}

func evaluateIsolated(rule Rule, rs RuleSettings) (result RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			result = RuleResult{
				Name:       rule.Name(),
				Evaluation: fmt.Sprintf("The rule could not be evaluated: %v", r),
				Value:      false,
			}
		}
	}()
	result = rule.Evaluate(rs)
	result.Name = rule.Name()
	return result
}

// ruleSettingsFor resolves one rule's settings by key, falling back to active
// with the given default threshold when the user has not configured it.
func ruleSettingsFor(s Settings, key string, defaultThreshold float64) RuleSettings {
	rs := RuleSettings{
		IsActive:     true,
		BaseCurrency: s.BaseCurrency,
		Threshold:    defaultThreshold,
	}
	if opts, ok := s.Rules[key]; ok {
		rs.IsActive = opts.IsActive
		if opts.Threshold != 0 {
			rs.Threshold = opts.Threshold
		}
	}
	return rs
}
