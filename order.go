package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType identifies the direction of an order.
type OrderType string

const (
	BuyOrder  OrderType = "buy"
	SellOrder OrderType = "sell"
)

// ParseOrderType parses a string into an OrderType.
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case BuyOrder:
		return BuyOrder, nil
	case SellOrder:
		return SellOrder, nil
	default:
		return "", fmt.Errorf("unknown order type: %q", s)
	}
}

// Order is an immutable buy or sell activity record. It is created by the
// caller from persisted activity data and never mutated after construction.
type Order struct {
	ID        uuid.UUID
	Type      OrderType
	Date      Date
	Symbol    string
	Currency  string // the symbol's native trading currency
	Quantity  Quantity
	UnitPrice Money // per-unit price in the native currency
	Fee       Money // in the native currency
	Account   string
	Platform  string
}

// NewOrder creates a new Order with a fresh id.
func NewOrder(t OrderType, on Date, symbol, currency string, quantity Quantity, unitPrice, fee decimal.Decimal) Order {
	return Order{
		ID:        uuid.New(),
		Type:      t,
		Date:      on,
		Symbol:    symbol,
		Currency:  currency,
		Quantity:  quantity,
		UnitPrice: M(unitPrice, currency),
		Fee:       M(fee, currency),
	}
}

// Total returns quantity × unit price, in the order's native currency.
func (o Order) Total() Money { return o.UnitPrice.Mul(o.Quantity) }

// Validate checks an order for correctness.
func (o Order) Validate() error {
	if o.Type != BuyOrder && o.Type != SellOrder {
		return fmt.Errorf("unknown order type: %q", o.Type)
	}
	if o.Symbol == "" {
		return errors.New("symbol is missing")
	}
	if o.Currency == "" {
		return errors.New("currency is missing")
	}
	if o.Date.IsZero() {
		return errors.New("date is missing")
	}
	if !o.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", o.Quantity)
	}
	if o.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price must not be negative, got %s", o.UnitPrice.Amount())
	}
	if o.Fee.IsNegative() {
		return fmt.Errorf("fee must not be negative, got %s", o.Fee.Amount())
	}
	return nil
}

// orderRecord is the wire representation of an Order, with amounts carried as
// plain decimals and a single currency field.
type orderRecord struct {
	ID        string          `json:"id,omitempty"`
	Type      OrderType       `json:"type"`
	Date      Date            `json:"date"`
	Symbol    string          `json:"symbol"`
	Currency  string          `json:"currency"`
	Quantity  Quantity        `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Fee       decimal.Decimal `json:"fee"`
	Account   string          `json:"account,omitempty"`
	Platform  string          `json:"platform,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for Order.
func (o Order) MarshalJSON() ([]byte, error) {
	var id string
	if o.ID != uuid.Nil {
		id = o.ID.String()
	}
	return json.Marshal(orderRecord{
		ID:        id,
		Type:      o.Type,
		Date:      o.Date,
		Symbol:    o.Symbol,
		Currency:  o.Currency,
		Quantity:  o.Quantity,
		UnitPrice: o.UnitPrice.Amount(),
		Fee:       o.Fee.Amount(),
		Account:   o.Account,
		Platform:  o.Platform,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface for Order.
func (o *Order) UnmarshalJSON(data []byte) error {
	var rec orderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	var id uuid.UUID
	if rec.ID != "" {
		var err error
		if id, err = uuid.Parse(rec.ID); err != nil {
			return fmt.Errorf("invalid order id %q: %w", rec.ID, err)
		}
	}
	*o = Order{
		ID:        id,
		Type:      rec.Type,
		Date:      rec.Date,
		Symbol:    rec.Symbol,
		Currency:  rec.Currency,
		Quantity:  rec.Quantity,
		UnitPrice: M(rec.UnitPrice, rec.Currency),
		Fee:       M(rec.Fee, rec.Currency),
		Account:   rec.Account,
		Platform:  rec.Platform,
	}
	return nil
}
