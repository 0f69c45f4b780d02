// Package cmd implements the CLI application to value a portfolio of orders.
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/ghostfolio/ghostfolio-sub000"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands is the list of subcommands. A main package registers them on a
// subcommands.Commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&performanceCmd{},
	&holdingCmd{},
	&valueCmd{},
	&xrayCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ordersFile = flag.String("orders-file", "orders.jsonl", "Path to the orders file (JSONL format)")
var pricesFile = flag.String("prices-file", "prices.jsonl", "Path to the market data file (JSONL format)")
var settingsFile = flag.String("settings-file", "settings.yaml", "Path to the settings file (YAML format)")
var Verbose = flag.Bool("v", false, "Enable verbose logging")

// newLogger builds the application logger. Quiet by default: the markdown
// reports are the output, logs are diagnostics.
func newLogger() *zap.Logger {
	if !*Verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// DecodeOrders reads orders from the app orders file, one JSON object per line.
func DecodeOrders() ([]portfolio.Order, error) {
	f, err := os.Open(*ordersFile)
	if err != nil {
		return nil, fmt.Errorf("could not open orders file %q: %w", *ordersFile, err)
	}
	defer f.Close()

	var orders []portfolio.Order
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var o portfolio.Order
		if err := json.Unmarshal(scanner.Bytes(), &o); err != nil {
			return nil, fmt.Errorf("invalid order at %s:%d: %w", *ordersFile, line, err)
		}
		orders = append(orders, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read orders file %q: %w", *ordersFile, err)
	}
	return orders, nil
}

// priceRecord is one line of the market data file. A record without a date is
// a live quote; a dated record is a historical closing price.
type priceRecord struct {
	Symbol   string          `json:"symbol"`
	Currency string          `json:"currency,omitempty"`
	Date     *portfolio.Date `json:"date,omitempty"`
	Price    float64         `json:"price"`
}

// DecodePrices reads market data from the app prices file into an in-memory
// provider. A missing file yields an empty provider, not an error: all
// valuations then fall back to average cost.
func DecodePrices() (*portfolio.StaticDataProvider, error) {
	provider := portfolio.NewStaticDataProvider()
	f, err := os.Open(*pricesFile)
	if os.IsNotExist(err) {
		return provider, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open prices file %q: %w", *pricesFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec priceRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("invalid price at %s:%d: %w", *pricesFile, line, err)
		}
		if rec.Date == nil {
			provider.SetQuote(rec.Symbol, rec.Currency, rec.Price)
		} else {
			provider.AddPrice(rec.Symbol, *rec.Date, rec.Price)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read prices file %q: %w", *pricesFile, err)
	}
	return provider, nil
}

// loadPortfolio assembles the whole engine from the app files: settings,
// market data, exchange rates and orders.
func loadPortfolio(ctx context.Context) (*portfolio.Portfolio, portfolio.Settings, error) {
	settings, err := portfolio.LoadSettings(*settingsFile)
	if err != nil {
		return nil, settings, err
	}
	orders, err := DecodeOrders()
	if err != nil {
		return nil, settings, err
	}
	provider, err := DecodePrices()
	if err != nil {
		return nil, settings, err
	}

	currencies := []string{settings.BaseCurrency}
	for _, o := range orders {
		currencies = append(currencies, o.Currency)
	}
	logger := newLogger()
	resolver := portfolio.NewExchangeRateResolver(provider, currencies,
		portfolio.WithResolverLogger(logger))
	if err := resolver.Initialize(ctx); err != nil {
		return nil, settings, err
	}

	p := portfolio.New(settings.BaseCurrency, provider, resolver, portfolio.WithLogger(logger))
	if err := p.SetOrders(ctx, orders); err != nil {
		return nil, settings, err
	}
	return p, settings, nil
}

// printMarkdown writes a rendered markdown report to stdout.
func printMarkdown(md string) { fmt.Println(md) }
