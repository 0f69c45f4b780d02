package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrIncompleteValuation reports that a computed total is degraded because at
// least one required exchange rate was unavailable. Callers must treat the
// accompanying value as unknown, not as zero.
var ErrIncompleteValuation = errors.New("valuation degraded by a missing exchange rate")

// Performance summarizes the portfolio's gross and net performance over a
// date range, in the base currency. Absolute figures are rounded to 2
// decimals, ratios to 4, half away from zero.
type Performance struct {
	CurrentValue                   Money
	CurrentGrossPerformance        Money
	CurrentGrossPerformancePercent Percent
	CurrentNetPerformance          Money
	CurrentNetPerformancePercent   Percent
}

// PortfolioPosition is the per-symbol detail row produced by GetDetails,
// merging live quote data with the anchor-date and current snapshots.
type PortfolioPosition struct {
	Symbol           string
	Currency         string
	Quantity         Quantity
	MarketPrice      float64
	AveragePrice     Money
	FirstBuyDate     Date
	Investment       Money // base currency
	Value            Money // base currency
	GrossPerformance Money // base currency, over the requested range

	GrossPerformancePercent Percent
	ShareCurrent            Percent // share of total portfolio value
	ShareInvestment         Percent // share of total cost basis

	Platforms        map[string]Money
	TransactionCount int
}

// Portfolio computes value, cost basis and performance over a list of orders.
// Each instance operates on its own order list and snapshot series; no state
// is shared across portfolios.
type Portfolio struct {
	baseCurrency string
	provider     DataProvider
	resolver     *ExchangeRateResolver
	builder      *TimeSeriesBuilder
	logger       *zap.Logger
	now          func() Date

	orders []Order // sorted by date
	prices map[string]*History[float64]
	items  []PortfolioItem
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithLogger sets the logger used by the portfolio and its time-series builder.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Portfolio) { p.logger = logger }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() Date) Option {
	return func(p *Portfolio) { p.now = now }
}

// New creates an empty portfolio reporting in the given base currency.
func New(baseCurrency string, provider DataProvider, resolver *ExchangeRateResolver, opts ...Option) *Portfolio {
	p := &Portfolio{
		baseCurrency: baseCurrency,
		provider:     provider,
		resolver:     resolver,
		logger:       zap.NewNop(),
		now:          Today,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.builder = NewTimeSeriesBuilder(resolver, baseCurrency,
		WithBuilderLogger(p.logger), WithBuilderClock(p.now))
	return p
}

// BaseCurrency returns the currency all aggregated figures are reported in.
func (p *Portfolio) BaseCurrency() string { return p.baseCurrency }

// Orders returns the portfolio's orders, sorted by date.
func (p *Portfolio) Orders() []Order { return p.orders }

// Items returns the computed snapshot series.
func (p *Portfolio) Items() []PortfolioItem { return p.items }

// SetOrders replaces the portfolio's orders, fetches the historical prices
// of every traded symbol in one batched call, and rebuilds the whole
// snapshot series. A provider failure aborts the build: the portfolio is
// left empty rather than partially computed.
func (p *Portfolio) SetOrders(ctx context.Context, orders []Order) error {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("invalid order on %s: %w", o.Date, err)
		}
	}

	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	slices.SortStableFunc(sorted, func(a, b Order) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})
	p.orders = sorted
	p.items = nil
	p.prices = nil

	if len(sorted) == 0 {
		return nil
	}

	currencies := symbolCurrencies(sorted)
	symbols := make([]string, 0, len(currencies))
	for symbol := range currencies {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	prices, err := p.provider.GetHistorical(ctx, symbols, sorted[0].Date, p.now())
	if err != nil {
		return fmt.Errorf("could not fetch historical prices: %w", err)
	}
	p.prices = prices
	p.items = p.builder.Build(sorted, prices)
	return nil
}

// AddOrder inserts one order, possibly out of chronological order. Existing
// snapshots from the order's month onward are updated in place; an order for
// a new symbol or predating the series triggers a full rebuild.
func (p *Portfolio) AddOrder(ctx context.Context, o Order) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid order on %s: %w", o.Date, err)
	}
	if len(p.items) == 0 {
		return p.SetOrders(ctx, append(p.orders, o))
	}
	if _, known := p.prices[o.Symbol]; !known {
		if _, traded := symbolCurrencies(p.orders)[o.Symbol]; !traded {
			return p.SetOrders(ctx, append(p.orders, o))
		}
	}
	if o.Date.StartOfMonth().Before(p.items[0].Date.StartOfMonth()) {
		return p.SetOrders(ctx, append(p.orders, o))
	}

	p.orders = append(p.orders, o)
	slices.SortStableFunc(p.orders, func(a, b Order) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})

	// Re-walk the surviving snapshots from the order's month onward, applying
	// the incremental delta and recomputing each touched snapshot's totals.
	for i := range p.items {
		item := &p.items[i]
		if o.Date.StartOfMonth().After(item.Date.StartOfMonth()) {
			continue
		}
		position, ok := item.Positions[o.Symbol]
		if !ok {
			position = newPosition(o.Symbol, o.Currency, p.baseCurrency)
			position.MarketPrice = priceOn(p.prices, o.Symbol, item.Date)
		}
		position.apply(o, p.resolver, p.baseCurrency)
		item.Positions[o.Symbol] = position
		p.builder.computeAggregates(item)
	}
	return nil
}

// MinDate returns the date of the earliest order, or the zero date when the
// portfolio is empty.
func (p *Portfolio) MinDate() Date {
	if len(p.orders) == 0 {
		return Date{}
	}
	return p.orders[0].Date
}

// snapshotAsOf returns the latest snapshot on or before the given date.
func (p *Portfolio) snapshotAsOf(on Date) (PortfolioItem, bool) {
	for i := len(p.items) - 1; i >= 0; i-- {
		if !p.items[i].Date.After(on) {
			return p.items[i], true
		}
	}
	return PortfolioItem{}, false
}

// GetPositions returns the positions held at the given date, keyed by symbol.
// An empty portfolio, or a date before the first snapshot, yields an empty map.
func (p *Portfolio) GetPositions(on Date) map[string]Position {
	item, ok := p.snapshotAsOf(on)
	if !ok {
		return map[string]Position{}
	}
	positions := make(map[string]Position, len(item.Positions))
	for symbol, position := range item.Positions {
		position = position.clone()
		// Prefer the price of the requested date over the snapshot's.
		if price := priceOn(p.prices, symbol, on); price != 0 {
			position.MarketPrice = price
		}
		positions[symbol] = position
	}
	return positions
}

// GetValue computes the total portfolio value at the given date, in the base
// currency. The returned error is ErrIncompleteValuation when a required
// exchange rate was unavailable; the value must then be treated as unknown.
func (p *Portfolio) GetValue(on Date) (Money, error) {
	positions := p.GetPositions(on)
	value, complete := valueOfPositions(positions, on, p.resolver, p.baseCurrency)
	if !complete {
		return value, ErrIncompleteValuation
	}
	return value, nil
}

// GetCommittedFunds returns total buys minus total sells, each converted to
// the base currency. Fees are excluded.
func (p *Portfolio) GetCommittedFunds() Money {
	committed := M(0, p.baseCurrency)
	for _, o := range p.orders {
		amount := M(p.resolver.Convert(o.Total(), p.baseCurrency).Money.Amount(), p.baseCurrency)
		switch o.Type {
		case BuyOrder:
			committed = committed.Add(amount)
		case SellOrder:
			committed = committed.Sub(amount)
		}
	}
	return committed
}

// GetFees returns the total fees paid up to and including the given date.
// Fees in different currencies are converted independently before summing.
func (p *Portfolio) GetFees(on Date) Money {
	fees := M(0, p.baseCurrency)
	for _, o := range p.orders {
		if o.Date.After(on) {
			break // orders are sorted
		}
		fees = fees.Add(M(p.resolver.Convert(o.Fee, p.baseCurrency).Money.Amount(), p.baseCurrency))
	}
	return fees
}

// investmentOf sums the positions' cost bases in the base currency.
func (p *Portfolio) investmentOf(positions map[string]Position) Money {
	investment := M(0, p.baseCurrency)
	for _, position := range positions {
		investment = investment.Add(M(position.Investment.Amount(), p.baseCurrency))
	}
	return investment
}

// GetPerformance computes the gross and net performance between the range's
// anchor date and today.
func (p *Portfolio) GetPerformance(rng DateRange) (Performance, error) {
	today := p.now()
	anchor := rng.AnchorDate(p.MinDate(), today)

	currentValue, errCurrent := p.GetValue(today)
	pastValue, errPast := p.GetValue(anchor)
	currentInvestment := p.investmentOf(p.GetPositions(today))
	pastInvestment := p.investmentOf(p.GetPositions(anchor))

	gross := currentValue.Sub(currentInvestment).Sub(pastValue.Sub(pastInvestment))
	feesSinceAnchor := p.GetFees(today).Sub(p.GetFees(anchor))
	net := gross.Sub(feesSinceAnchor)

	perf := Performance{
		CurrentValue:                   currentValue.Round(2),
		CurrentGrossPerformance:        gross.Round(2),
		CurrentGrossPerformancePercent: ratioPercent(gross, pastInvestment),
		CurrentNetPerformance:          net.Round(2),
		CurrentNetPerformancePercent:   ratioPercent(net, pastInvestment),
	}
	if errCurrent != nil {
		return perf, errCurrent
	}
	return perf, errPast
}

// ratioPercent returns numerator/denominator as a Percent, with the ratio
// rounded to 4 decimals half away from zero; 0 when the denominator is zero.
func ratioPercent(numerator, denominator Money) Percent {
	if denominator.IsZero() {
		return 0
	}
	ratio := numerator.Amount().Div(denominator.Amount()).Round(4)
	return Percent(ratio.InexactFloat64() * 100)
}

// GetDetails returns the per-symbol breakdown over the given range, merging
// live quotes with the anchor-date and current snapshots.
func (p *Portfolio) GetDetails(ctx context.Context, rng DateRange) (map[string]PortfolioPosition, error) {
	today := p.now()
	anchor := rng.AnchorDate(p.MinDate(), today)
	current := p.GetPositions(today)
	if len(current) == 0 {
		return map[string]PortfolioPosition{}, nil
	}
	past := p.GetPositions(anchor)

	symbols := make([]string, 0, len(current))
	for symbol := range current {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	quotes, err := p.provider.Get(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("could not fetch live quotes: %w", err)
	}

	// Merge live prices in before computing the total, so shares are
	// consistent with the displayed values.
	positions := make(map[string]Position, len(current))
	for symbol, position := range current {
		if q, ok := quotes[symbol]; ok && q.MarketPrice != 0 {
			position.MarketPrice = q.MarketPrice
		}
		positions[symbol] = position
	}
	totalValue, _ := valueOfPositions(positions, today, p.resolver, p.baseCurrency)
	totalInvestment := p.investmentOf(positions)

	details := make(map[string]PortfolioPosition, len(positions))
	for symbol, position := range positions {
		if !position.Quantity.IsPositive() {
			continue
		}
		currentPrice := M(decimal.NewFromFloat(position.MarketPrice), position.Currency)
		if position.MarketPrice == 0 {
			currentPrice = position.AveragePrice
		}
		beforePrice := p.beforePrice(rng, position, past, anchor)

		value := M(p.resolver.Convert(currentPrice.Mul(position.Quantity), p.baseCurrency).Money.Amount(), p.baseCurrency)
		grossNative := currentPrice.Sub(beforePrice).Mul(position.Quantity)
		gross := M(p.resolver.Convert(grossNative, p.baseCurrency).Money.Amount(), p.baseCurrency)

		grossPct := Percent(0)
		if !beforePrice.IsZero() {
			ratio := currentPrice.Amount().Div(beforePrice.Amount()).Sub(decimal.NewFromInt(1)).Round(4)
			grossPct = Percent(ratio.InexactFloat64() * 100)
		}

		details[symbol] = PortfolioPosition{
			Symbol:                  symbol,
			Currency:                position.Currency,
			Quantity:                position.Quantity,
			MarketPrice:             position.MarketPrice,
			AveragePrice:            position.AveragePrice,
			FirstBuyDate:            position.FirstBuyDate,
			Investment:              position.Investment.Round(2),
			Value:                   value.Round(2),
			GrossPerformance:        gross.Round(2),
			GrossPerformancePercent: grossPct,
			ShareCurrent:            ratioPercent(value, totalValue),
			ShareInvestment:         ratioPercent(position.Investment, totalInvestment),
			Platforms:               position.Platforms,
			TransactionCount:        position.TransactionCount,
		}
	}
	return details, nil
}

// beforePrice selects the baseline price for a position over a range. Long
// ranges always use the average cost; so does any position first bought on or
// after the anchor date, so a same-day trade cannot show a spurious swing.
func (p *Portfolio) beforePrice(rng DateRange, position Position, past map[string]Position, anchor Date) Money {
	switch rng {
	case Range1Y, Range5Y, RangeMax:
		return position.AveragePrice
	}
	if !position.FirstBuyDate.Before(anchor) {
		return position.AveragePrice
	}
	pastPosition, ok := past[position.Symbol]
	if !ok || pastPosition.MarketPrice == 0 {
		return position.AveragePrice
	}
	return M(decimal.NewFromFloat(pastPosition.MarketPrice), position.Currency)
}
