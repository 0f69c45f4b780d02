package portfolio

import (
	"math"
	"testing"
	"time"
)

func TestPosition_WeightedAveragePrice(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), nil, "USD")
	position := newPosition("BTCUSD", "USD", "USD")

	position.apply(buy(NewDate(2021, time.November, 30), "BTCUSD", "USD", 0.2, 991.49, 1), resolver, "USD")
	position.apply(buy(NewDate(2021, time.December, 1), "BTCUSD", "USD", 0.3, 1050, 1), resolver, "USD")

	if !position.Quantity.Equal(Q(0.5)) {
		t.Errorf("Quantity = %s, want 0.5", position.Quantity)
	}
	if !position.InvestmentInOriginalCurrency.Equal(M(513.298, "USD")) {
		t.Errorf("InvestmentInOriginalCurrency = %s, want 513.298", position.InvestmentInOriginalCurrency.Amount())
	}
	if !position.AveragePrice.Equal(M(1026.596, "USD")) {
		t.Errorf("AveragePrice = %s, want 1026.596", position.AveragePrice.Amount())
	}
	if position.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", position.TransactionCount)
	}
	if position.FirstBuyDate != NewDate(2021, time.November, 30) {
		t.Errorf("FirstBuyDate = %s, want 2021-11-30", position.FirstBuyDate)
	}
}

func TestPosition_BuySellBuy(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), nil, "USD")
	position := newPosition("BTCUSD", "USD", "USD")

	position.apply(buy(NewDate(2021, time.November, 1), "BTCUSD", "USD", 0.2, 991.49, 1), resolver, "USD")
	position.apply(sellOrder(NewDate(2021, time.November, 15), "BTCUSD", "USD", 0.1, 1050, 1), resolver, "USD")
	position.apply(buy(NewDate(2021, time.December, 1), "BTCUSD", "USD", 0.2, 1050, 1), resolver, "USD")

	if !position.Quantity.Equal(Q(0.3)) {
		t.Errorf("Quantity = %s, want 0.3", position.Quantity)
	}
	// 0.2*991.49 - 0.1*1050 + 0.2*1050 = 303.298
	if !position.InvestmentInOriginalCurrency.Equal(M(303.298, "USD")) {
		t.Errorf("InvestmentInOriginalCurrency = %s, want 303.298", position.InvestmentInOriginalCurrency.Amount())
	}
	want := 303.298 / 0.3
	if got := position.AveragePrice.AsFloat(); math.Abs(got-want) > 1e-9 {
		t.Errorf("AveragePrice = %v, want %v", got, want)
	}
	if position.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", position.TransactionCount)
	}
}

func TestPosition_FullSellResetsCostBasis(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), nil, "USD")
	position := newPosition("BTCUSD", "USD", "USD")

	first := buy(NewDate(2021, time.November, 1), "BTCUSD", "USD", 0.2, 991.49, 1)
	first.Platform = "Coinbase"
	position.apply(first, resolver, "USD")
	position.apply(sellOrder(NewDate(2021, time.December, 1), "BTCUSD", "USD", 0.2, 1050, 1), resolver, "USD")

	if !position.Quantity.IsZero() {
		t.Fatalf("Quantity = %s, want 0", position.Quantity)
	}
	if !position.Investment.IsZero() || !position.InvestmentInOriginalCurrency.IsZero() {
		t.Errorf("investment not reset: %s / %s",
			position.Investment.Amount(), position.InvestmentInOriginalCurrency.Amount())
	}
	if !position.AveragePrice.IsZero() {
		t.Errorf("AveragePrice = %s, want 0", position.AveragePrice.Amount())
	}
	if len(position.Platforms) != 0 {
		t.Errorf("Platforms = %v, want empty", position.Platforms)
	}
	// The first buy date survives the reset.
	if position.FirstBuyDate != NewDate(2021, time.November, 1) {
		t.Errorf("FirstBuyDate = %s, want 2021-11-01", position.FirstBuyDate)
	}
	if position.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", position.TransactionCount)
	}
}

func TestPosition_ConvertsInvestmentToBaseCurrency(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), map[string]float64{"USDCHF": 2}, "USD", "CHF")
	position := newPosition("NESN.SW", "CHF", "USD")

	position.apply(buy(NewDate(2021, time.December, 1), "NESN.SW", "CHF", 10, 50, 0), resolver, "USD")

	if !position.InvestmentInOriginalCurrency.Equal(M(500, "CHF")) {
		t.Errorf("InvestmentInOriginalCurrency = %s, want 500 CHF", position.InvestmentInOriginalCurrency.Amount())
	}
	// 500 CHF at a CHF->USD rate of 0.5.
	if !position.Investment.Equal(M(250, "USD")) {
		t.Errorf("Investment = %s, want 250 USD", position.Investment.Amount())
	}
}

func TestPosition_TracksPlatforms(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), nil, "USD")
	position := newPosition("AAPL", "USD", "USD")

	first := buy(NewDate(2021, time.November, 1), "AAPL", "USD", 1, 100, 0)
	first.Platform = "Interactive Brokers"
	second := buy(NewDate(2021, time.December, 1), "AAPL", "USD", 1, 110, 0)
	second.Platform = "Coinbase"
	position.apply(first, resolver, "USD")
	position.apply(second, resolver, "USD")

	if len(position.Platforms) != 2 {
		t.Fatalf("Platforms = %v, want 2 entries", position.Platforms)
	}
	if !position.Platforms["Interactive Brokers"].Equal(M(100, "USD")) {
		t.Errorf("Interactive Brokers = %s, want 100", position.Platforms["Interactive Brokers"].Amount())
	}
	if !position.Platforms["Coinbase"].Equal(M(110, "USD")) {
		t.Errorf("Coinbase = %s, want 110", position.Platforms["Coinbase"].Amount())
	}
}

func TestAccumulatePosition_MonthGranularity(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), nil, "USD")
	orders := []Order{
		buy(NewDate(2021, time.December, 18), "BTCUSD", "USD", 1, 100, 0),
		buy(NewDate(2021, time.November, 5), "ETHUSD", "USD", 1, 50, 0),
	}

	// An order counts from the first of its own month.
	position := accumulatePosition("BTCUSD", "USD", orders, NewDate(2021, time.December, 1), resolver, "USD")
	if !position.Quantity.Equal(Q(1)) {
		t.Errorf("quantity as of 2021-12-01 = %s, want 1", position.Quantity)
	}

	position = accumulatePosition("BTCUSD", "USD", orders, NewDate(2021, time.November, 30), resolver, "USD")
	if !position.Quantity.IsZero() {
		t.Errorf("quantity as of 2021-11-30 = %s, want 0", position.Quantity)
	}

	// Other symbols' orders are ignored.
	position = accumulatePosition("BTCUSD", "USD", orders, testToday, resolver, "USD")
	if position.TransactionCount != 1 {
		t.Errorf("TransactionCount = %d, want 1", position.TransactionCount)
	}
}

func TestPosition_CloneIsIndependent(t *testing.T) {
	resolver := newTestResolver(t, NewStaticDataProvider(), nil, "USD")
	position := newPosition("AAPL", "USD", "USD")
	o := buy(NewDate(2021, time.November, 1), "AAPL", "USD", 1, 100, 0)
	o.Platform = "Coinbase"
	position.apply(o, resolver, "USD")

	clone := position.clone()
	clone.Platforms["Coinbase"] = M(999, "USD")

	if !position.Platforms["Coinbase"].Equal(M(100, "USD")) {
		t.Errorf("clone mutation leaked: %s", position.Platforms["Coinbase"].Amount())
	}
}
