package portfolio

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReferenceCurrency is the pivot used to synthesize rates between two
// currencies when no direct rate is available.
const ReferenceCurrency = "USD"

// Conversion is the result of a currency conversion. When no exchange rate
// could be produced, Money carries the unconverted input value and Converted
// is false: the conversion fails open so a single missing pair never aborts a
// whole valuation, but callers can choose not to treat the value as
// authoritative.
type Conversion struct {
	Money     Money
	Converted bool
}

// ExchangeRateResolver maintains a lookup table of multiplicative conversion
// factors between a configured set of currencies. The table is loaded from
// yesterday's closing rates, completed with synthesized inverse and
// transitive (via ReferenceCurrency) rates, and rebuilt on the spot whenever
// it looks uninitialized.
type ExchangeRateResolver struct {
	provider   DataProvider
	logger     *zap.Logger
	currencies []string
	now        func() Date

	mu    sync.Mutex // guards rates and the single-flight re-initialization
	rates map[string]float64
}

// ResolverOption configures an ExchangeRateResolver.
type ResolverOption func(*ExchangeRateResolver)

// WithResolverLogger sets the logger used to report degraded conversions.
func WithResolverLogger(logger *zap.Logger) ResolverOption {
	return func(r *ExchangeRateResolver) { r.logger = logger }
}

// WithResolverClock overrides the clock, for tests.
func WithResolverClock(now func() Date) ResolverOption {
	return func(r *ExchangeRateResolver) { r.now = now }
}

// NewExchangeRateResolver creates a resolver for the given set of currencies.
// The reference currency is always part of the set. Initialize must be called
// before the first conversion; a conversion against an uninitialized table
// triggers a synchronous initialization as a fallback.
func NewExchangeRateResolver(provider DataProvider, currencies []string, opts ...ResolverOption) *ExchangeRateResolver {
	r := &ExchangeRateResolver{
		provider: provider,
		logger:   zap.NewNop(),
		now:      Today,
		rates:    make(map[string]float64),
	}
	seen := map[string]struct{}{ReferenceCurrency: {}}
	r.currencies = append(r.currencies, ReferenceCurrency)
	for _, cur := range currencies {
		if _, ok := seen[cur]; ok || cur == "" {
			continue
		}
		seen[cur] = struct{}{}
		r.currencies = append(r.currencies, cur)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize loads yesterday's closing rate for every configured currency
// pair, synthesizing inverse and transitive rates for the pairs that cannot
// be resolved directly. It replaces the whole table atomically.
func (r *ExchangeRateResolver) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initializeLocked(ctx)
}

func (r *ExchangeRateResolver) initializeLocked(ctx context.Context) error {
	yesterday := r.now().Add(-1)

	var pairs []string
	for _, base := range r.currencies {
		for _, quote := range r.currencies {
			if base != quote {
				pairs = append(pairs, base+quote)
			}
		}
	}

	rates := make(map[string]float64, len(pairs)+len(r.currencies))
	// Self rates anchor the table; their absence marks it uninitialized.
	for _, cur := range r.currencies {
		rates[cur+cur] = 1
	}

	histories, err := r.provider.GetHistorical(ctx, pairs, yesterday, yesterday)
	if err != nil {
		return fmt.Errorf("could not load historical exchange rates: %w", err)
	}

	var missing []string
	for _, pair := range pairs {
		if h, ok := histories[pair]; ok {
			if rate, ok := h.ValueAsOf(yesterday); ok && rate != 0 {
				rates[pair] = rate
				inverse := pair[3:] + pair[:3]
				if _, ok := rates[inverse]; !ok {
					rates[inverse] = 1 / rate
				}
				continue
			}
		}
		missing = append(missing, pair)
	}

	// Historical data had nothing for these pairs: fall back to live quotes.
	if len(missing) > 0 {
		quotes, err := r.provider.Get(ctx, missing)
		if err != nil {
			return fmt.Errorf("could not load live exchange rates: %w", err)
		}
		for _, pair := range missing {
			if _, ok := rates[pair]; ok {
				continue // already covered by a synthesized inverse
			}
			if q, ok := quotes[pair]; ok && q.MarketPrice != 0 {
				rates[pair] = q.MarketPrice
				inverse := pair[3:] + pair[:3]
				if _, ok := rates[inverse]; !ok {
					rates[inverse] = 1 / q.MarketPrice
				}
			}
		}
	}

	// Synthesize the remaining pairs through the reference currency.
	for _, pair := range pairs {
		if _, ok := rates[pair]; ok {
			continue
		}
		base, quote := pair[:3], pair[3:]
		toRef, okTo := rates[base+ReferenceCurrency]
		fromRef, okFrom := rates[ReferenceCurrency+quote]
		if okTo && okFrom {
			rates[pair] = toRef * fromRef
			if _, ok := rates[quote+base]; !ok {
				rates[quote+base] = 1 / (toRef * fromRef)
			}
		}
	}

	r.rates = rates
	return nil
}

// ToCurrency converts a raw decimal amount between two currencies. The value
// is returned unchanged (and flagged unconverted) when no rate is available.
func (r *ExchangeRateResolver) ToCurrency(value decimal.Decimal, from, to string) Conversion {
	return r.Convert(M(value, from), to)
}

// Convert converts a monetary amount into the target currency. See Conversion
// for the fail-open contract.
func (r *ExchangeRateResolver) Convert(m Money, to string) Conversion {
	if m.Currency() == to || m.Currency() == "" {
		return Conversion{Money: M(m.Amount(), to), Converted: true}
	}
	rate, ok := r.rate(m.Currency(), to)
	if !ok {
		r.logger.Error("no exchange rate available, returning unconverted value",
			zap.String("from", m.Currency()),
			zap.String("to", to))
		return Conversion{Money: m, Converted: false}
	}
	return Conversion{Money: M(m.Amount().Mul(decimal.NewFromFloat(rate)), to), Converted: true}
}

// rate returns the cached conversion factor from one currency to another,
// computing and caching it on demand through the reference currency when the
// direct entry is missing.
func (r *ExchangeRateResolver) rate(from, to string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A corrupt or missing reference self-rate means the whole table cannot
	// be trusted: rebuild it synchronously before answering. Callers pay the
	// latency of one provider round-trip here.
	if self, ok := r.rates[ReferenceCurrency+ReferenceCurrency]; !ok || math.IsNaN(self) {
		r.logger.Warn("exchange rate table looks uninitialized, rebuilding")
		if err := r.initializeLocked(context.Background()); err != nil {
			r.logger.Error("could not rebuild exchange rate table", zap.Error(err))
			return 0, false
		}
	}

	if rate, ok := r.rates[from+to]; ok && rate != 0 && !math.IsNaN(rate) {
		return rate, true
	}

	// Compute on demand via the reference currency and cache the result.
	toRef, okTo := r.rates[from+ReferenceCurrency]
	fromRef, okFrom := r.rates[ReferenceCurrency+to]
	if okTo && okFrom && toRef != 0 && fromRef != 0 {
		rate := toRef * fromRef
		r.rates[from+to] = rate
		if _, ok := r.rates[to+from]; !ok {
			r.rates[to+from] = 1 / rate
		}
		return rate, true
	}
	return 0, false
}
