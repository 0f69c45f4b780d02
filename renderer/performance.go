package renderer

import (
	"bytes"
	"fmt"
	"sort"

	portfolio "github.com/ghostfolio/ghostfolio-sub000"
	md "github.com/nao1215/markdown"
)

// PerformanceMarkdown renders the portfolio performance over one range to a
// markdown string.
func PerformanceMarkdown(baseCurrency string, rng portfolio.DateRange, p portfolio.Performance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance (%s)", rng))
	doc.PlainText(fmt.Sprintf("Current Value: %.2f %s", p.CurrentValue.AsFloat(), baseCurrency))

	table := md.TableSet{
		Header: []string{"", "Amount", "Return"},
		Rows: [][]string{
			{"Gross", fmt.Sprintf("%+.2f %s", p.CurrentGrossPerformance.AsFloat(), baseCurrency), p.CurrentGrossPerformancePercent.SignedString()},
			{"Net", fmt.Sprintf("%+.2f %s", p.CurrentNetPerformance.AsFloat(), baseCurrency), p.CurrentNetPerformancePercent.SignedString()},
		},
	}
	doc.Table(table)

	return doc.String()
}

// DetailsMarkdown renders the per-symbol breakdown to a markdown string, one
// row per held symbol, sorted by ticker.
func DetailsMarkdown(baseCurrency string, rng portfolio.DateRange, details map[string]portfolio.PortfolioPosition) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Holdings (%s)", rng))

	symbols := make([]string, 0, len(details))
	for symbol := range details {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	rows := make([][]string, 0, len(symbols))
	for _, symbol := range symbols {
		position := details[symbol]
		rows = append(rows, []string{
			symbol,
			position.Quantity.String(),
			fmt.Sprintf("%.2f %s", position.MarketPrice, position.Currency),
			fmt.Sprintf("%.2f %s", position.Value.AsFloat(), baseCurrency),
			position.GrossPerformancePercent.SignedString(),
			position.ShareCurrent.String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Symbol", "Quantity", "Price", "Value", "Return", "Share"},
		Rows:   rows,
	})

	return doc.String()
}
