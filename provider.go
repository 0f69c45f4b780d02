package portfolio

import "context"

// Quote holds the live market data returned by a data provider for one symbol.
type Quote struct {
	Currency    string
	MarketPrice float64
}

// DataProvider is the boundary to the external market-data collaborator.
// Currency pairs (e.g. "USDCHF") are regular symbols whose price is the
// conversion factor from the first to the second currency.
type DataProvider interface {
	// Get returns the latest quote for each requested symbol. Symbols with no
	// quote are simply absent from the result.
	Get(ctx context.Context, symbols []string) (map[string]Quote, error)

	// GetHistorical returns the daily closing prices of each requested symbol
	// between from and to, both inclusive. Symbols with no data are absent
	// from the result.
	GetHistorical(ctx context.Context, symbols []string, from, to Date) (map[string]*History[float64], error)
}

// StaticDataProvider is a deterministic in-memory DataProvider, used by tests
// and by the CLI when market data is read from a local file.
type StaticDataProvider struct {
	quotes    map[string]Quote
	histories map[string]*History[float64]
}

// NewStaticDataProvider creates an empty in-memory data provider.
func NewStaticDataProvider() *StaticDataProvider {
	return &StaticDataProvider{
		quotes:    make(map[string]Quote),
		histories: make(map[string]*History[float64]),
	}
}

// SetQuote sets the live quote for a symbol.
func (p *StaticDataProvider) SetQuote(symbol, currency string, marketPrice float64) *StaticDataProvider {
	p.quotes[symbol] = Quote{Currency: currency, MarketPrice: marketPrice}
	return p
}

// AddPrice records a historical closing price for a symbol.
func (p *StaticDataProvider) AddPrice(symbol string, on Date, price float64) *StaticDataProvider {
	h, ok := p.histories[symbol]
	if !ok {
		h = &History[float64]{}
		p.histories[symbol] = h
	}
	h.Append(on, price)
	return p
}

// Get implements DataProvider.
func (p *StaticDataProvider) Get(_ context.Context, symbols []string) (map[string]Quote, error) {
	result := make(map[string]Quote, len(symbols))
	for _, symbol := range symbols {
		if q, ok := p.quotes[symbol]; ok {
			result[symbol] = q
		}
	}
	return result, nil
}

// GetHistorical implements DataProvider.
func (p *StaticDataProvider) GetHistorical(_ context.Context, symbols []string, from, to Date) (map[string]*History[float64], error) {
	result := make(map[string]*History[float64], len(symbols))
	for _, symbol := range symbols {
		h, ok := p.histories[symbol]
		if !ok {
			continue
		}
		filtered := &History[float64]{}
		for on, price := range h.Values() {
			if NewRange(from, to).Contains(on) {
				filtered.Append(on, price)
			}
		}
		if filtered.Len() > 0 {
			result[symbol] = filtered
		}
	}
	return result, nil
}

var _ DataProvider = (*StaticDataProvider)(nil)
