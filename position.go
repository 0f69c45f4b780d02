package portfolio

// Position is the running state of one symbol's holdings at a snapshot date.
//
// Invariant: AveragePrice × Quantity == InvestmentInOriginalCurrency whenever
// Quantity > 0. When the quantity returns to exactly zero both investment
// fields are reset (realized gains are not carried).
type Position struct {
	Symbol   string
	Currency string // native trading currency

	Quantity     Quantity
	AveragePrice Money // weighted average cost of the held quantity, native currency

	Investment                   Money // cost basis, base currency
	InvestmentInOriginalCurrency Money // cost basis, native currency

	FirstBuyDate Date    // earliest buy date, set once, never cleared
	MarketPrice  float64 // native currency, 0 when unavailable

	// Platforms tracks the cost basis (base currency) per platform the symbol
	// was traded on, feeding the platform concentration rules.
	Platforms map[string]Money

	TransactionCount int
}

// newPosition returns an empty position for a symbol, so symbols with zero
// net transactions still appear and valuation can reference their price
// history.
func newPosition(symbol, currency, baseCurrency string) Position {
	return Position{
		Symbol:                       symbol,
		Currency:                     currency,
		AveragePrice:                 M(0, currency),
		Investment:                   M(0, baseCurrency),
		InvestmentInOriginalCurrency: M(0, currency),
		Platforms:                    make(map[string]Money),
	}
}

// apply folds one order into the position. Orders must be applied in
// chronological order. Conversion into the base currency fails open (see
// Conversion); a degraded rate leaves the investment plausible but native.
func (p *Position) apply(o Order, resolver *ExchangeRateResolver, baseCurrency string) {
	total := o.Total()
	// A degraded conversion keeps its native amount (fail-open); it is
	// re-labelled in the base currency so the running totals stay additive.
	converted := M(resolver.Convert(total, baseCurrency).Money.Amount(), baseCurrency)

	switch o.Type {
	case BuyOrder:
		p.Quantity = p.Quantity.Add(o.Quantity)
		p.InvestmentInOriginalCurrency = p.InvestmentInOriginalCurrency.Add(total)
		p.Investment = p.Investment.Add(converted)
		if p.FirstBuyDate.IsZero() || o.Date.Before(p.FirstBuyDate) {
			p.FirstBuyDate = o.Date
		}
		p.addPlatform(o.Platform, converted)
	case SellOrder:
		p.Quantity = p.Quantity.Sub(o.Quantity)
		if p.Quantity.IsZero() {
			// Full sell: the cost basis is reset rather than realized.
			p.Investment = M(0, baseCurrency)
			p.InvestmentInOriginalCurrency = M(0, p.Currency)
			p.Platforms = make(map[string]Money)
		} else {
			p.InvestmentInOriginalCurrency = p.InvestmentInOriginalCurrency.Sub(total)
			p.Investment = p.Investment.Sub(converted)
			p.addPlatform(o.Platform, converted.Neg())
		}
	}

	if p.Quantity.IsPositive() {
		p.AveragePrice = p.InvestmentInOriginalCurrency.Div(p.Quantity)
	} else {
		p.AveragePrice = M(0, p.Currency)
	}
	p.TransactionCount++
}

func (p *Position) addPlatform(platform string, amount Money) {
	if platform == "" {
		return
	}
	p.Platforms[platform] = p.Platforms[platform].Add(amount)
}

// clone returns a deep copy, so one snapshot's positions can seed the next
// without sharing the platform map.
func (p Position) clone() Position {
	platforms := make(map[string]Money, len(p.Platforms))
	for name, amount := range p.Platforms {
		platforms[name] = amount
	}
	p.Platforms = platforms
	return p
}

// accumulatePosition folds all of one symbol's orders, in chronological order
// up to and including the snapshot date's month, into a Position.
func accumulatePosition(symbol, currency string, orders []Order, asOf Date, resolver *ExchangeRateResolver, baseCurrency string) Position {
	position := newPosition(symbol, currency, baseCurrency)
	for _, o := range orders {
		if o.Symbol != symbol {
			continue
		}
		if o.Date.StartOfMonth().After(asOf.StartOfMonth()) {
			continue
		}
		position.apply(o, resolver, baseCurrency)
	}
	return position
}
