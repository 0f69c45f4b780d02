// Package portfolio implements a multi-currency portfolio valuation and
// performance engine.
//
// The engine turns a list of buy/sell orders plus daily market prices into a
// consistent per-day time series of positions, cost basis, portfolio value and
// gross/net performance, all expressed in a single base currency. Market data
// is supplied by an external collaborator through the DataProvider interface;
// currency conversion goes through an ExchangeRateResolver that synthesizes
// inverse and transitive rates from the pairs it can load.
//
// A set of pluggable risk rules can be evaluated against the current
// positions to produce an X-ray style report.
package portfolio
