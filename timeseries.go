package portfolio

import (
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PortfolioItem is the reconstructed state of all positions and their
// aggregate value at one anchor date. Items are immutable once computed
// within a run; a recompute discards and rebuilds the whole series.
type PortfolioItem struct {
	Date                    Date
	Positions               map[string]Position
	Investment              Money // sum of position cost bases, base currency
	Value                   Money // total market value, base currency
	GrossPerformancePercent Percent
}

// TimeSeriesBuilder produces one PortfolioItem per calendar anchor: the 1st
// of every month from the earliest order's month, plus explicit yesterday and
// today entries.
type TimeSeriesBuilder struct {
	resolver     *ExchangeRateResolver
	baseCurrency string
	logger       *zap.Logger
	now          func() Date
}

// BuilderOption configures a TimeSeriesBuilder.
type BuilderOption func(*TimeSeriesBuilder)

// WithBuilderLogger sets the logger used to report missing market data.
func WithBuilderLogger(logger *zap.Logger) BuilderOption {
	return func(b *TimeSeriesBuilder) { b.logger = logger }
}

// WithBuilderClock overrides the clock, for tests.
func WithBuilderClock(now func() Date) BuilderOption {
	return func(b *TimeSeriesBuilder) { b.now = now }
}

// NewTimeSeriesBuilder creates a builder reporting in the given base currency.
func NewTimeSeriesBuilder(resolver *ExchangeRateResolver, baseCurrency string, opts ...BuilderOption) *TimeSeriesBuilder {
	b := &TimeSeriesBuilder{
		resolver:     resolver,
		baseCurrency: baseCurrency,
		logger:       zap.NewNop(),
		now:          Today,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns orders (in any chronological order) and historical prices into
// the full snapshot series, from the earliest order's month to today.
func (b *TimeSeriesBuilder) Build(orders []Order, prices map[string]*History[float64]) []PortfolioItem {
	if len(orders) == 0 {
		return nil
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

	minDate := sorted[0].Date.StartOfMonth()
	today := b.now()
	yesterday := today.Add(-1)

	// One anchor per month start, stepping until today. The dates that
	// coincide with yesterday or today are added explicitly afterwards to
	// guarantee exact boundary snapshots.
	var dates []Date
	for on := minDate; on.Before(today); on = on.AddMonth(1) {
		if on == yesterday || on == today {
			continue
		}
		dates = append(dates, on)
	}
	if yesterday.After(minDate) {
		dates = append(dates, yesterday)
	}
	dates = append(dates, today)
	if len(dates) == 1 {
		// All orders dated today: keep a single snapshot, dated today.
		dates[0] = today
	}

	currencies := symbolCurrencies(sorted)

	items := make([]PortfolioItem, 0, len(dates))
	for _, on := range dates {
		positions := make(map[string]Position, len(currencies))
		for symbol, currency := range currencies {
			position := accumulatePosition(symbol, currency, sorted, on, b.resolver, b.baseCurrency)
			position.MarketPrice = priceOn(prices, symbol, on)
			positions[symbol] = position
		}
		item := PortfolioItem{Date: on, Positions: positions}
		b.computeAggregates(&item)
		items = append(items, item)
	}
	return items
}

// computeAggregates recomputes an item's investment, value and gross
// performance from its positions.
func (b *TimeSeriesBuilder) computeAggregates(item *PortfolioItem) {
	investment := M(0, b.baseCurrency)
	for _, position := range item.Positions {
		investment = investment.Add(M(position.Investment.Amount(), b.baseCurrency))
	}
	item.Investment = investment

	value, complete := valueOfPositions(item.Positions, item.Date, b.resolver, b.baseCurrency)
	if !complete {
		b.logger.Error("portfolio value is degraded by a missing exchange rate",
			zap.String("date", item.Date.String()))
	}
	item.Value = value

	if investment.IsZero() {
		item.GrossPerformancePercent = 0
	} else {
		ratio := value.Sub(investment).Amount().Div(investment.Amount())
		item.GrossPerformancePercent = Percent(ratio.InexactFloat64() * 100)
	}
}

// valueOfPositions sums quantity × price over all held positions, converted
// to the base currency. The price falls back to the average cost when the
// date precedes the first buy or no market price is known. The second return
// is false when at least one conversion degraded to an unconverted value.
func valueOfPositions(positions map[string]Position, on Date, resolver *ExchangeRateResolver, baseCurrency string) (Money, bool) {
	total := M(0, baseCurrency)
	complete := true
	for _, position := range positions {
		if !position.Quantity.IsPositive() {
			continue
		}
		price := M(decimal.NewFromFloat(position.MarketPrice), position.Currency)
		if on.Before(position.FirstBuyDate) || position.MarketPrice == 0 {
			price = position.AveragePrice
		}
		conversion := resolver.Convert(price.Mul(position.Quantity), baseCurrency)
		if !conversion.Converted {
			complete = false
		}
		// A degraded conversion contributes its native amount: plausible but
		// wrong, and reported through the complete flag.
		total = total.Add(M(conversion.Money.Amount(), baseCurrency))
	}
	return total, complete
}

// symbolCurrencies maps every traded symbol to its native currency.
func symbolCurrencies(orders []Order) map[string]string {
	currencies := make(map[string]string)
	for _, o := range orders {
		if _, ok := currencies[o.Symbol]; !ok {
			currencies[o.Symbol] = o.Currency
		}
	}
	return currencies
}

// priceOn returns the closing price of a symbol on an exact date, 0 when
// unavailable.
func priceOn(prices map[string]*History[float64], symbol string, on Date) float64 {
	h, ok := prices[symbol]
	if !ok {
		return 0
	}
	price, _ := h.Get(on)
	return price
}
